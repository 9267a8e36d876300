package social_test

import (
	"reflect"
	"testing"

	"github.com/kurtniemi/kurtclone/internal/social"
)

func TestExtractURLs(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []social.Match
	}{
		{
			name: "no urls",
			text: "just a regular message",
			want: nil,
		},
		{
			name: "single linkedin",
			text: "Here is my profile https://linkedin.com/in/kurtniemi",
			want: []social.Match{{Platform: "LinkedIn", URL: "https://linkedin.com/in/kurtniemi"}},
		},
		{
			name: "platform before generic website",
			text: "Check https://x.com/janedoe and https://janedoe.dev",
			want: []social.Match{
				{Platform: "Twitter/X", URL: "https://x.com/janedoe"},
				{Platform: "Website", URL: "https://janedoe.dev"},
			},
		},
		{
			name: "duplicate url collapses to first occurrence",
			text: "https://linkedin.com/in/a and again https://linkedin.com/in/a",
			want: []social.Match{{Platform: "LinkedIn", URL: "https://linkedin.com/in/a"}},
		},
		{
			name: "www and twitter domain",
			text: "follow https://www.twitter.com/kurt",
			want: []social.Match{{Platform: "Twitter/X", URL: "https://www.twitter.com/kurt"}},
		},
		{
			name: "tiktok handle path",
			text: "see https://tiktok.com/@kurtclone",
			want: []social.Match{{Platform: "TikTok", URL: "https://tiktok.com/@kurtclone"}},
		},
		{
			name: "multiple platforms keep pattern order",
			text: "LinkedIn: https://linkedin.com/in/janedoe, Twitter: https://x.com/janedoe, GitHub: https://github.com/janedoe",
			want: []social.Match{
				{Platform: "LinkedIn", URL: "https://linkedin.com/in/janedoe"},
				{Platform: "Twitter/X", URL: "https://x.com/janedoe"},
				{Platform: "GitHub", URL: "https://github.com/janedoe"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := social.ExtractURLs(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractURLs(%q)\n got %v\nwant %v", tc.text, got, tc.want)
			}
		})
	}
}

// Extraction is a pure function: re-running it yields the same list in the
// same order.
func TestExtractURLsIsIdempotent(t *testing.T) {
	text := "https://linkedin.com/in/a https://x.com/b https://linkedin.com/in/a https://example.com/page"

	first := social.ExtractURLs(text)
	second := social.ExtractURLs(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not idempotent:\nfirst  %v\nsecond %v", first, second)
	}
}

func TestExtractURLsCaseInsensitive(t *testing.T) {
	got := social.ExtractURLs("HTTPS://LINKEDIN.COM/IN/KURT")
	if len(got) != 1 || got[0].Platform != "LinkedIn" {
		t.Fatalf("expected case-insensitive LinkedIn match, got %v", got)
	}
}

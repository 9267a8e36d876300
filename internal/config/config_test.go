package config

import "testing"

func TestCronSpec(t *testing.T) {
	cases := []struct {
		joinTime string
		want     string
		wantErr  bool
	}{
		{"20:00", "0 20 * * *", false},
		{"08:30", "30 8 * * *", false},
		{"0:05", "5 0 * * *", false},
		{"24:00", "", true},
		{"20:60", "", true},
		{"eight", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ScheduleConfig{JoinTime: tc.joinTime}.CronSpec()
		if tc.wantErr {
			if err == nil {
				t.Fatalf("CronSpec(%q): expected error", tc.joinTime)
			}
			continue
		}
		if err != nil {
			t.Fatalf("CronSpec(%q) err: %v", tc.joinTime, err)
		}
		if got != tc.want {
			t.Fatalf("CronSpec(%q) = %q, want %q", tc.joinTime, got, tc.want)
		}
	}
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Fatalf("addr: got %q", cfg.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:5000")
	cfg, err = loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != "127.0.0.1:5000" {
		t.Fatalf("addr: got %q", cfg.Addr)
	}

	t.Setenv("PORT", "not a port")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestBotConfigDefaults(t *testing.T) {
	cfg, err := loadBotConfig()
	if err != nil {
		t.Fatalf("loadBotConfig err: %v", err)
	}
	if cfg.ProfileURL == "" {
		t.Fatal("profile URL should have a default")
	}
	if cfg.TranscriptGrace.Seconds() != 5 {
		t.Fatalf("grace default: got %s want 5s", cfg.TranscriptGrace)
	}

	t.Setenv("TRANSCRIPT_GRACE_SECONDS", "-1")
	if _, err := loadBotConfig(); err == nil {
		t.Fatal("expected error for negative grace interval")
	}
}

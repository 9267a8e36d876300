// Package recall wraps the meeting-bot provider's REST API: bot lifecycle,
// in-meeting chat, and transcript generation.
package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/kurtniemi/kurtclone/internal/config"
)

// RecipientEveryone is the provider's sentinel for public chat. Anything
// else in a message's "to" field is a participant id, making it a DM. The
// normalizer and sender both key off this constant; if the provider ever
// changes the sentinel, this is the one place to fix.
const RecipientEveryone = "everyone"

// BotName is the display name used when creating bots.
const BotName = "Kurt's Clone"

// greetingMessage is delivered by the provider itself when the bot joins,
// via the on_bot_joined chat config. Join events therefore never trigger a
// reactive greeting from the webhook.
const greetingMessage = "👋 Kurt's Clone here! I'm the upgraded version. Mention 'Kurt' or '@kurtbot' in chat to talk to me, or DM me anytime! Ask me 'how were you created?' to learn my origin story. 😎"

// Client talks to the provider API. Timeouts are the HTTP client's own; the
// webhook path adds none of its own.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient builds a provider client from configuration.
func NewClient(cfg config.RecallConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// Bot is the subset of the provider's bot resource we consume.
type Bot struct {
	ID         string `json:"id"`
	MeetingURL any    `json:"meeting_url,omitempty"`
}

// Transcript describes an async transcript job.
type Transcript struct {
	ID   string `json:"id"`
	Data struct {
		DownloadURL string `json:"download_url"`
	} `json:"data"`
}

// CreateBot provisions a bot that records the meeting, streams transcription,
// forwards chat events to webhookURL, and greets the room on join.
func (c *Client) CreateBot(ctx context.Context, meetingURL, webhookURL string) (*Bot, error) {
	payload := map[string]any{
		"meeting_url": meetingURL,
		"bot_name":    BotName,
		"automatic_leave": map[string]any{
			"waiting_room_timeout":  600,
			"noone_joined_timeout":  600,
			"everyone_left_timeout": 2,
		},
		"chat": map[string]any{
			"on_bot_joined": map[string]any{
				"send_to": RecipientEveryone,
				"message": greetingMessage,
			},
		},
		"recording_config": map[string]any{
			"recording_mode": "speaker_view",
			"transcript": map[string]any{
				"provider": map[string]any{
					"assembly_ai_v3_streaming": map[string]any{
						"punctuate":   true,
						"format_text": true,
					},
				},
			},
			"realtime_endpoints": []map[string]any{
				{
					"type":   "webhook",
					"url":    webhookURL,
					"events": []string{"participant_events.chat_message"},
				},
			},
		},
	}

	var bot Bot
	if err := c.do(ctx, http.MethodPost, "/bot/", payload, http.StatusCreated, &bot); err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	log.Printf("[recall] bot created: %s", bot.ID)
	return &bot, nil
}

// SendChatMessage posts a chat message into the meeting. to is either
// RecipientEveryone or a participant id.
func (c *Client) SendChatMessage(ctx context.Context, botID, to, message string) error {
	payload := map[string]string{
		"to":      to,
		"message": message,
	}

	path := fmt.Sprintf("/bot/%s/send_chat_message/", botID)
	if err := c.do(ctx, http.MethodPost, path, payload, http.StatusOK, nil); err != nil {
		return fmt.Errorf("send chat message: %w", err)
	}
	return nil
}

// CreateAsyncTranscript requests a high-quality transcript for a finished
// recording. The result arrives later as a transcript.done webhook.
func (c *Client) CreateAsyncTranscript(ctx context.Context, recordingID string) (*Transcript, error) {
	payload := map[string]any{
		"provider": map[string]any{
			"assembly_ai_async": map[string]any{
				"language_code":      "en_us",
				"punctuate":          true,
				"format_text":        true,
				"speaker_labels":     true,
				"disfluencies":       false,
				"sentiment_analysis": true,
				"auto_chapters":      true,
				"entity_detection":   true,
			},
		},
	}

	var transcript Transcript
	path := fmt.Sprintf("/recording/%s/create_transcript/", recordingID)
	if err := c.do(ctx, http.MethodPost, path, payload, http.StatusOK, &transcript); err != nil {
		return nil, fmt.Errorf("create async transcript: %w", err)
	}

	log.Printf("[recall] async transcript requested: %s", transcript.ID)
	return &transcript, nil
}

// GetTranscript fetches transcript metadata, including the download URL.
func (c *Client) GetTranscript(ctx context.Context, transcriptID string) (*Transcript, error) {
	var transcript Transcript
	path := fmt.Sprintf("/transcript/%s/", transcriptID)
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &transcript); err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return &transcript, nil
}

// DownloadTranscript resolves a transcript's download URL and writes the
// artifact to outputPath.
func (c *Client) DownloadTranscript(ctx context.Context, transcriptID, outputPath string) error {
	transcript, err := c.GetTranscript(ctx, transcriptID)
	if err != nil {
		return err
	}
	if transcript.Data.DownloadURL == "" {
		return fmt.Errorf("transcript %s has no download URL", transcriptID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, transcript.Data.DownloadURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download transcript: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read transcript body: %w", err)
	}

	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("write transcript file: %w", err)
	}

	log.Printf("[recall] transcript downloaded to %s", outputPath)
	return nil
}

// GetBot fetches the current state of a bot.
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	var bot Bot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bot/%s/", botID), nil, http.StatusOK, &bot); err != nil {
		return nil, fmt.Errorf("get bot: %w", err)
	}
	return &bot, nil
}

// ListBots lists all bots on the account.
func (c *Client) ListBots(ctx context.Context) ([]Bot, error) {
	var bots []Bot
	if err := c.do(ctx, http.MethodGet, "/bot/", nil, http.StatusOK, &bots); err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	return bots, nil
}

// RemoveBot deletes a bot, forcing it out of its meeting.
func (c *Client) RemoveBot(ctx context.Context, botID string) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/bot/%s/", botID), nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("remove bot: %w", err)
	}
	return nil
}

// LeaveCall asks a bot to leave its current meeting.
func (c *Client) LeaveCall(ctx context.Context, botID string) error {
	path := fmt.Sprintf("/bot/%s/leave_call/", botID)
	if err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("leave call: %w", err)
	}
	return nil
}

// do issues one API request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload any, wantStatus int, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

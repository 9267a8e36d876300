// Package webhook routes provider events to the session store, classifier,
// response generator, and exporter.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kurtniemi/kurtclone/internal/classify"
	"github.com/kurtniemi/kurtclone/internal/config"
	"github.com/kurtniemi/kurtclone/internal/model/meeting"
	"github.com/kurtniemi/kurtclone/internal/recall"
	"github.com/kurtniemi/kurtclone/internal/service/ai"
	"github.com/kurtniemi/kurtclone/internal/session"
	"github.com/kurtniemi/kurtclone/pkg/utils"
)

// helpKeyword in spoken words triggers the fixed help message below.
const helpKeyword = "help"

const helpMessage = "I'm here to help! DM me for some fun! 🤖"

// Responder generates a reply for a chat message. Implementations never
// fail: outages degrade to fixed fallback strings.
type Responder interface {
	Respond(ctx context.Context, text, sender string, mode ai.Mode, recent []meeting.Entry) string
}

// Provider is the subset of the bot-control API the router calls.
type Provider interface {
	SendChatMessage(ctx context.Context, botID, to, message string) error
	CreateAsyncTranscript(ctx context.Context, recordingID string) (*recall.Transcript, error)
	DownloadTranscript(ctx context.Context, transcriptID, outputPath string) error
}

// Exporter persists a session's history at teardown.
type Exporter interface {
	Export(botID, recordingID string) (string, error)
}

// Handler is the webhook event router.
type Handler struct {
	store     session.Store
	responder Responder
	provider  Provider
	exporter  Exporter
	cfg       config.BotConfig

	// mentionTriggers are the lower-cased phrases that make a public
	// message count as addressing the bot.
	mentionTriggers []string

	// schedule defers the async transcript request past the grace
	// interval without holding the webhook request open. Tests override
	// it to run synchronously.
	schedule func(d time.Duration, f func())
}

// New wires the router to its collaborators.
func New(store session.Store, responder Responder, provider Provider, exporter Exporter, cfg config.BotConfig) *Handler {
	return &Handler{
		store:     store,
		responder: responder,
		provider:  provider,
		exporter:  exporter,
		cfg:       cfg,
		mentionTriggers: []string{
			strings.ToLower(meeting.BotHandle),
			"kurt",
			strings.ToLower(cfg.ProfileURL),
		},
		schedule: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// RegisterRoutes mounts the webhook endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook/recall", h.handleEvent)
}

// handleEvent parses the envelope and dispatches by event type. Malformed
// envelopes get a 400; a fault inside one event's handling gets a 500
// without touching other sessions' state.
func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Printf("[webhook] error parsing request: %v", err)
		utils.RespondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	event, ok := data["event"].(string)
	if !ok || event == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing event field")
		return
	}

	log.Printf("[webhook] received event: %s", event)

	if err := h.dispatch(r.Context(), event, data); err != nil {
		log.Printf("[webhook] error handling event %q: %v", event, err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondOK(w)
}

func (h *Handler) dispatch(ctx context.Context, event string, data map[string]any) error {
	switch event {
	case "transcript.data":
		h.handleTranscriptData(ctx, data)

	case "transcript.partial_data":
		// Partial transcripts are low-latency fragments; log only.
		log.Printf("[webhook] partial transcript: %s", str(child(data, "data", "data"), "words"))

	case "participant_events.chat_message", "chat.message":
		return h.handleChatMessage(ctx, data)

	case "bot.joining_call":
		log.Printf("[webhook] bot joining the call (bot_id: %s)", extractBotID(data))

	case "bot.in_call_recording":
		log.Printf("[webhook] bot in call and recording (bot_id: %s)", extractBotID(data))

	case "bot.in_call_not_recording":
		// Greeting is configured on bot creation, not sent reactively.
		log.Printf("[webhook] bot in call, not recording (bot_id: %s)", extractBotID(data))

	case "bot.status_change":
		sc := normalizeStatusChange(data)
		log.Printf("[webhook] bot status changed to %q (bot_id: %s)", sc.Status, sc.BotID)
		if sc.Status == "done" {
			h.finishMeeting(sc.BotID, sc.RecordingID)
		}

	case "bot.done", "bot.call_ended":
		botID := extractBotID(data)
		recordingID := extractRecordingID(data)
		log.Printf("[webhook] bot left the call (bot_id: %s, recording_id: %s)", botID, recordingID)
		h.finishMeeting(botID, recordingID)

	case "transcript.done":
		h.handleTranscriptDone(ctx, data)

	case "transcript.failed":
		log.Printf("[webhook] transcript failed: %v", data["data"])

	case "recording.done":
		recordingID := str(child(data, "data", "recording"), "id")
		log.Printf("[webhook] recording completed (recording_id: %s)", recordingID)
		if recordingID == "" {
			log.Printf("[webhook] no recording id in recording.done event")
			return nil
		}
		h.requestTranscriptLater(recordingID)

	case "participant_events.done":
		log.Printf("[webhook] participant event tracking completed")

	case "realtime_endpoint.done":
		log.Printf("[webhook] realtime endpoint completed")

	default:
		log.Printf("[webhook] unhandled event type: %s", event)
	}

	return nil
}

// handleTranscriptData inspects live speech for the help keyword and, when
// present, posts the fixed help message to everyone.
func (h *Handler) handleTranscriptData(ctx context.Context, data map[string]any) {
	td := normalizeTranscriptData(data)
	log.Printf("[webhook] real-time transcript from %s: %s", td.Speaker, td.Words)

	if td.Words == "" || !strings.Contains(strings.ToLower(td.Words), helpKeyword) {
		return
	}

	if err := h.provider.SendChatMessage(ctx, td.BotID, recall.RecipientEveryone, helpMessage); err != nil {
		log.Printf("[webhook] failed to send help message: %v", err)
	}
}

// handleChatMessage runs the full chat pipeline: normalize, record,
// classify, respond, and record the bot's own reply into the same channel.
func (h *Handler) handleChatMessage(ctx context.Context, data map[string]any) error {
	msg := normalizeChatMessage(data, recall.RecipientEveryone)

	channel := "PUBLIC"
	if msg.IsDM {
		channel = "DM"
	}
	log.Printf("[webhook] [%s] chat from %s: %s", channel, msg.Sender, msg.Text)

	if msg.BotID == "" {
		log.Printf("[webhook] chat event without a bot id, skipping")
		return nil
	}

	entry := meeting.Entry{
		Sender: msg.Sender,
		Text:   msg.Text,
		SentAt: time.Now(),
	}

	if msg.IsDM {
		entry.ParticipantID = msg.SenderID
		h.store.RecordDirect(msg.BotID, entry)
	} else {
		h.store.RecordPublic(msg.BotID, entry)
	}

	result := classify.Classify(msg.Text, msg.IsDM, h.mentionTriggers)
	if !result.NeedsResponse() {
		return nil
	}

	if h.responder == nil {
		log.Printf("[webhook] no responder configured, skipping reply to %s", msg.Sender)
		return nil
	}

	mode := ai.ModePlayful
	var recent []meeting.Entry
	if result.Category == classify.OpinionRequest {
		log.Printf("[webhook] processing contextual opinion request from %s (trigger: %q)", msg.Sender, result.Trigger)
		mode = ai.ModeContextual
		recent = h.store.Context(msg.BotID)
	} else {
		log.Printf("[webhook] processing %s message from %s", channel, msg.Sender)
	}

	reply := h.responder.Respond(ctx, msg.Text, msg.Sender, mode, recent)

	recipient := recall.RecipientEveryone
	if msg.IsDM {
		recipient = msg.SenderID
	}
	if err := h.provider.SendChatMessage(ctx, msg.BotID, recipient, reply); err != nil {
		log.Printf("[webhook] failed to send reply: %v", err)
	}

	botEntry := meeting.Entry{
		Sender: meeting.BotHandle,
		Text:   reply,
		SentAt: time.Now(),
	}
	if msg.IsDM {
		// ParticipantID on a bot DM entry records who the reply answered.
		botEntry.ParticipantID = msg.SenderID
		h.store.RecordDirect(msg.BotID, botEntry)
	} else {
		h.store.RecordPublic(msg.BotID, botEntry)
	}

	return nil
}

// finishMeeting exports and purges the session, then queues the async
// transcript request when a recording exists.
func (h *Handler) finishMeeting(botID, recordingID string) {
	if botID != "" {
		if _, err := h.exporter.Export(botID, recordingID); err != nil {
			log.Printf("[webhook] export failed for bot %s: %v", botID, err)
		}
		h.store.Purge(botID)
		log.Printf("[webhook] cleaned up buffers for bot %s", botID)
	}

	if recordingID != "" {
		h.requestTranscriptLater(recordingID)
	}
}

// requestTranscriptLater asks for the async transcript after the grace
// interval, giving the upstream recording time to finalize. Runs off the
// request path; the webhook response is not held open.
func (h *Handler) requestTranscriptLater(recordingID string) {
	log.Printf("[webhook] requesting async transcript for recording %s in %s", recordingID, h.cfg.TranscriptGrace)
	h.schedule(h.cfg.TranscriptGrace, func() {
		if _, err := h.provider.CreateAsyncTranscript(context.Background(), recordingID); err != nil {
			log.Printf("[webhook] async transcript request failed for recording %s: %v", recordingID, err)
			return
		}
		log.Printf("[webhook] async transcript creation initiated for recording %s", recordingID)
	})
}

// handleTranscriptDone downloads the finished transcript artifact, naming it
// by recording id when available.
func (h *Handler) handleTranscriptDone(ctx context.Context, data map[string]any) {
	td := normalizeTranscriptDone(data)
	if td.TranscriptID == "" {
		log.Printf("[webhook] transcript.done without a transcript id")
		return
	}

	log.Printf("[webhook] async transcript completed (transcript_id: %s, recording_id: %s)", td.TranscriptID, td.RecordingID)

	name := td.TranscriptID
	if td.RecordingID != "" {
		name = td.RecordingID
	}
	path := filepath.Join(h.cfg.ExportDir, fmt.Sprintf("transcript_%s.json", name))

	if err := h.provider.DownloadTranscript(ctx, td.TranscriptID, path); err != nil {
		log.Printf("[webhook] transcript download failed: %v", err)
	}
}

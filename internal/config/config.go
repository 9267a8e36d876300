package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates configuration for all binaries.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Recall   RecallConfig
	Bot      BotConfig
	Schedule ScheduleConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	bot, err := loadBotConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Recall:   loadRecallConfig(),
		Bot:      bot,
		Schedule: loadScheduleConfig(),
	}, nil
}

// ServerConfig describes the webhook HTTP server.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":5000" or "127.0.0.1:5000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the completion model backing the bot's responses.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
}

// Enabled reports whether the required model credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: set ARK_MODEL plus ARK_API_KEY or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
	}, nil
}

// RecallConfig describes the meeting-bot provider API.
type RecallConfig struct {
	APIKey  string
	BaseURL string
}

// Enabled reports whether the provider API key is present.
func (c RecallConfig) Enabled() bool {
	return c.APIKey != ""
}

func loadRecallConfig() RecallConfig {
	return RecallConfig{
		APIKey:  strings.TrimSpace(os.Getenv("RECALL_API_KEY")),
		BaseURL: getEnvOrDefault("RECALL_BASE_URL", "https://us-west-2.recall.ai/api/v1"),
	}
}

// BotConfig describes the bot persona and webhook-side behavior.
type BotConfig struct {
	// ProfileURL is Kurt's public profile; mentioning it in chat counts
	// as addressing the bot.
	ProfileURL string
	// ExportDir is where chat exports and downloaded transcripts land.
	ExportDir string
	// TranscriptGrace is how long to wait after a meeting ends before
	// requesting the async transcript, so the recording can finalize.
	TranscriptGrace time.Duration
}

func loadBotConfig() (BotConfig, error) {
	grace, err := parseOptionalIntEnv("TRANSCRIPT_GRACE_SECONDS")
	if err != nil {
		return BotConfig{}, err
	}
	graceSeconds := 5
	if grace != nil {
		if *grace < 0 {
			return BotConfig{}, fmt.Errorf("TRANSCRIPT_GRACE_SECONDS must not be negative")
		}
		graceSeconds = *grace
	}

	return BotConfig{
		ProfileURL:      getEnvOrDefault("KURT_LINKEDIN_URL", "https://linkedin.com/in/kurtniemi"),
		ExportDir:       getEnvOrDefault("EXPORT_DIR", "."),
		TranscriptGrace: time.Duration(graceSeconds) * time.Second,
	}, nil
}

// ScheduleConfig describes the daily auto-join scheduler.
type ScheduleConfig struct {
	WebhookURL string
	MeetingURL string
	// JoinTime is the local HH:MM at which the bot joins the default meeting.
	JoinTime string
}

func loadScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		WebhookURL: strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
		MeetingURL: strings.TrimSpace(os.Getenv("MEETING_URL")),
		JoinTime:   getEnvOrDefault("SCHEDULE_TIME", "20:00"),
	}
}

// CronSpec converts the HH:MM join time into a cron expression.
func (c ScheduleConfig) CronSpec() (string, error) {
	parts := strings.SplitN(c.JoinTime, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid SCHEDULE_TIME value: %q", c.JoinTime)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid SCHEDULE_TIME hour: %q", c.JoinTime)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid SCHEDULE_TIME minute: %q", c.JoinTime)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

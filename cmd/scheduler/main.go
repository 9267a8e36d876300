// Command scheduler joins the configured meeting at a fixed local time every
// day by creating a fresh bot through the provider API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/kurtniemi/kurtclone/internal/config"
	"github.com/kurtniemi/kurtclone/internal/recall"
)

func main() {
	joinNow := flag.Bool("now", false, "join the meeting immediately in addition to the daily schedule")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Schedule.WebhookURL == "" {
		log.Fatal("WEBHOOK_URL not configured")
	}
	if cfg.Schedule.MeetingURL == "" {
		log.Fatal("MEETING_URL not configured, example: MEETING_URL=https://zoom.us/j/123456789")
	}
	if !cfg.Recall.Enabled() {
		log.Fatal("RECALL_API_KEY not configured")
	}

	spec, err := cfg.Schedule.CronSpec()
	if err != nil {
		log.Fatalf("invalid schedule: %v", err)
	}

	client := recall.NewClient(cfg.Recall)

	log.Printf("meeting bot scheduler starting")
	log.Printf("schedule: daily at %s", cfg.Schedule.JoinTime)
	log.Printf("webhook URL: %s", cfg.Schedule.WebhookURL)
	log.Printf("meeting URL: %s", cfg.Schedule.MeetingURL)

	if *joinNow {
		log.Println("test mode: joining meeting immediately")
		joinMeeting(client, cfg.Schedule)
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { joinMeeting(client, cfg.Schedule) }); err != nil {
		log.Fatalf("failed to register schedule: %v", err)
	}
	c.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("scheduler stopping")
	<-c.Stop().Done()
}

func joinMeeting(client *recall.Client, schedule config.ScheduleConfig) {
	log.Printf("scheduled join triggered at %s", time.Now().Format("2006-01-02 15:04:05"))
	log.Printf("creating bot for meeting: %s", schedule.MeetingURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	bot, err := client.CreateBot(ctx, schedule.MeetingURL, schedule.WebhookURL)
	if err != nil {
		log.Printf("failed to create bot: %v", err)
		return
	}

	log.Printf("bot %s is joining the meeting now", bot.ID)
}

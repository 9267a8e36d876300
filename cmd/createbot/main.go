// Command createbot creates a meeting bot for a single meeting URL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/kurtniemi/kurtclone/internal/config"
	"github.com/kurtniemi/kurtclone/internal/recall"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <meeting-url>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	meetingURL := flag.Arg(0)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if cfg.Schedule.WebhookURL == "" {
		log.Fatal("WEBHOOK_URL not configured, example: WEBHOOK_URL=https://your-domain.com/webhook/recall")
	}
	if !cfg.Recall.Enabled() {
		log.Fatal("RECALL_API_KEY not configured")
	}

	log.Printf("creating bot for meeting: %s", meetingURL)
	log.Printf("using webhook: %s", cfg.Schedule.WebhookURL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := recall.NewClient(cfg.Recall)
	bot, err := client.CreateBot(ctx, meetingURL, cfg.Schedule.WebhookURL)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	fmt.Printf("bot created successfully, ID: %s\n", bot.ID)
	fmt.Println("the bot will join the meeting shortly")
	fmt.Println()
	fmt.Println("try these interactions:")
	fmt.Println("  - DM the bot 'joke' for a dad joke")
	fmt.Println("  - DM the bot 'motivation' for funny motivation")
	fmt.Println("  - DM the bot 'roast' for a gentle meeting roast")
	fmt.Println("  - or just chat naturally with Kurt's Clone")
}

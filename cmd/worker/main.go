package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"janmat/backend/internal/notify"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupMailer returns nil when SMTP is not configured; the worker then
// logs deliveries instead of sending them.
func setupMailer() notify.Mailer {
	host := os.Getenv("SMTP_HOST")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if host == "" || user == "" || pass == "" {
		log.Println("Warning: Email service not configured - notifications will be logged only")
		return nil
	}

	port, err := strconv.Atoi(envOr("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("Invalid SMTP_PORT: %v", err)
	}

	mailer, err := notify.NewSMTPMailer(host, port, user, pass,
		envOr("SMTP_FROM", "no-reply@janmat.com"))
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}
	log.Println("Email service configured")
	return mailer
}

func setupTelegram() notify.TelegramSender {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil
	}
	tg, err := notify.NewTelegramNotifier(token)
	if err != nil {
		log.Fatalf("Failed to configure Telegram bot: %v", err)
	}
	log.Println("Telegram service configured")
	return tg
}

func main() {
	log.Println("Starting Janmat Notification Worker...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	worker := notify.NewWorker(
		envOr("RABBITMQ_URL", "amqp://localhost"),
		setupMailer(),
		setupTelegram(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Notification worker stopped: %v", err)
	}
	log.Println("Notification worker shut down")
}

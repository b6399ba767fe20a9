package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/infra/queue"
	"github.com/SundayYogurt/herohq/internal/api"
	"github.com/SundayYogurt/herohq/internal/api/consumers"
	"github.com/SundayYogurt/herohq/internal/logging"
	"github.com/SundayYogurt/herohq/internal/services"
)

func main() {
	// ---------- Load Config ----------
	cfg := config.LoadConfig()
	log := logging.NewJSON(os.Stdout, cfg.Env != "prod").With("service", "mailer")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KafkaBroker == "" {
		log.Error(ctx, "KAFKA_BROKER is required")
		os.Exit(1)
	}
	log.Info(ctx, "mail service starting",
		"broker", cfg.KafkaBroker,
		"topic", cfg.KafkaTopic,
		"group_id", cfg.KafkaGroupID,
	)

	// ---------- Init Service ----------
	mailService, err := services.NewMailService(services.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
		To:       cfg.MailTo,
		Subject:  cfg.MailSubject,
		AdminURL: cfg.AdminPanelURL,
	}, log)
	if err != nil {
		log.Error(ctx, "mail template", "error", err)
		os.Exit(1)
	}

	// resumes are fetched for the excerpt; mail still goes out without one
	store, err := api.OpenObjectStore(ctx, cfg)
	if err != nil {
		log.Warn(ctx, "object store unavailable, excerpts disabled", "error", err)
	}

	// ---------- Init Handler ----------
	handler := consumers.NewMailHandler(mailService, store, cfg.UploadMaxBytes, cfg.ExcerptMaxChar, log)

	// ---------- Init Kafka Consumer ----------
	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
		log,
	)

	// ---------- Start Listening ----------
	log.Info(ctx, "mail service listening for events")
	if err := consumer.Listen(ctx); err != nil {
		log.Error(ctx, "consumer stopped", "error", err)
		os.Exit(1)
	}
	log.Info(context.Background(), "mail service stopped")
}

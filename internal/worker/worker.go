package worker

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/syncer"
)

// Event is a sync request published by an external scheduler (cron job,
// admin tooling). MaxItems of 0 means a full sync.
type Event struct {
	Type      string    `json:"type"`
	MaxItems  int       `json:"max_items"`
	Timestamp time.Time `json:"timestamp"`
}

const EventSyncRequested = "sync.requested"

// Worker consumes sync requests from Kafka and runs the sync pipeline for
// each one. It is the out-of-band trigger path; the HTTP endpoints remain the
// interactive one.
type Worker struct {
	config  *config.Config
	logger  *logger.Logger
	reader  *kafka.Reader
	service *syncer.Service
}

func New(cfg *config.Config, logger *logger.Logger, service *syncer.Service) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "pagina-ml-worker",
		Topic:          "catalog-events",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:  cfg,
		logger:  logger,
		reader:  reader,
		service: service,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for sync requests...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if err == context.DeadlineExceeded {
				continue
			}
			if err == io.EOF {
				// Reader closed by Stop.
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if event.Type != EventSyncRequested {
			w.logger.Debug("Ignoring event type %s", event.Type)
			continue
		}

		result, err := w.service.Run(context.Background(), event.MaxItems)
		if err != nil {
			w.logger.Error("Sync failed: %v", err)
			continue
		}

		w.logger.Info("Sync finished: %d items in %s", result.Total, result.Duration)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}

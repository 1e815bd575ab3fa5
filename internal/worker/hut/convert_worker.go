package hut

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/hut-services/internal/config"
	"github.com/hut-services/internal/domain"
	"github.com/hut-services/internal/domain/repository"
	"github.com/hut-services/internal/observability"
	"github.com/hut-services/internal/service"
	"github.com/hut-services/internal/worker"
)

// WorkerName - имя воркера в логах и метриках
const WorkerName = "hut-convert"

const (
	emptyQueueSleep = 100 * time.Millisecond // пауза если очередь пуста и чтение без ожидания
	errorSleep      = time.Second            // пауза после ошибки чтения
)

// ServiceRegistry - поиск сервиса по имени источника
type ServiceRegistry interface {
	Get(name string) (service.HutService, error)
}

// ConvertWorker читает задания из stream:hut:convert, конвертирует запись сервисом
// источника и публикует результат в stream:hut:done
type ConvertWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	registry     ServiceRegistry
	cfg          config.WorkerConfig
	metrics      *observability.Metrics
	consumerName string
}

func NewConvertWorker(
	streamRepo repository.StreamRepository,
	registry ServiceRegistry,
	cfg config.WorkerConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ConvertWorker {
	consumerName := cfg.ConsumerName
	if consumerName == "" {
		hostname, _ := os.Hostname()
		consumerName = fmt.Sprintf("%s-%d", hostname, os.Getpid())
	}

	return &ConvertWorker{
		BaseWorker:   worker.NewBaseWorker(WorkerName, cfg.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		registry:     registry,
		cfg:          cfg,
		metrics:      metrics,
		consumerName: consumerName,
	}
}

// Start запускает воркер и блокируется до Stop или отмены ctx
func (w *ConvertWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ConvertWorker",
		zap.String("input_stream", w.cfg.InputStream),
		zap.String("output_stream", w.cfg.OutputStream),
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.cfg.BatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, w.cfg.InputStream, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	// сообщения, не подтвержденные до перезапуска, обрабатываются первыми
	if err := w.ProcessPending(ctx); err != nil {
		logger.Error("Failed to process pending messages", zap.Error(err))
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			logger.Error("Failed to process batch", zap.Error(err))
			w.sleep(ctx, errorSleep)
		case processed == 0 && w.cfg.StreamReadTimeout <= 0:
			w.sleep(ctx, emptyQueueSleep)
		}
	}
}

func (w *ConvertWorker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

// ProcessBatch читает и обрабатывает до BatchSize сообщений.
// Возвращает количество прочитанных сообщений.
func (w *ConvertWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		w.cfg.InputStream,
		w.ConsumerGroup(),
		w.consumerName,
		int64(w.cfg.BatchSize),
		w.cfg.StreamReadTimeout,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	w.handle(ctx, messages)
	return len(messages), nil
}

// ProcessPending повторно обрабатывает неподтвержденные сообщения этого consumer.
// Останавливается, когда в батче не подтвердилось ни одно сообщение.
func (w *ConvertWorker) ProcessPending(ctx context.Context) error {
	for ctx.Err() == nil {
		messages, err := w.streamRepo.ConsumePending(
			ctx,
			w.cfg.InputStream,
			w.ConsumerGroup(),
			w.consumerName,
			int64(w.cfg.BatchSize),
		)
		if err != nil {
			return fmt.Errorf("failed to consume pending: %w", err)
		}
		if len(messages) == 0 {
			return nil
		}
		w.Logger().Info("Reprocessing pending messages", zap.Int("count", len(messages)))
		if acked := w.handle(ctx, messages); acked == 0 {
			return nil
		}
	}
	return ctx.Err()
}

// handle конвертирует сообщения, публикует результаты и подтверждает опубликованные.
// Возвращает количество подтвержденных сообщений.
func (w *ConvertWorker) handle(ctx context.Context, messages []domain.StreamMessage) int {
	logger := w.Logger()
	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	acks := make([]string, 0, len(messages))
	var failed int
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Invalid message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			w.metrics.ObserveWorker(WorkerName, "invalid")
			// битое сообщение подтверждается, чтобы не застревало
			acks = append(acks, msg.ID)
			continue
		}

		done := w.convert(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, w.cfg.OutputStream, done); err != nil {
			// без ack сообщение останется в pending группы
			logger.Error("Failed to publish done event",
				zap.String("job_id", event.JobID.String()),
				zap.Error(err))
			w.metrics.ObserveWorker(WorkerName, "failed")
			failed++
			continue
		}

		outcome := "done"
		if done.Error != "" {
			outcome = "failed"
		}
		w.metrics.ObserveWorker(WorkerName, outcome)
		acks = append(acks, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, w.cfg.InputStream, w.ConsumerGroup(), acks); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
		return 0
	}

	logger.Info("Batch processed",
		zap.Int("messages", len(messages)),
		zap.Int("acked", len(acks)),
		zap.Int("publish_failed", failed))

	return len(acks)
}

// convert конвертирует запись задания. Ошибка конвертации попадает в событие,
// а не прерывает батч.
func (w *ConvertWorker) convert(ctx context.Context, event *domain.HutConvertEvent) *domain.HutDoneEvent {
	done := &domain.HutDoneEvent{
		JobID:    event.JobID,
		Source:   event.Source,
		SourceID: recordID(event.Record),
	}

	svc, err := w.registry.Get(event.Source)
	if err != nil {
		done.Error = err.Error()
		return done
	}

	includePhotos := event.IncludePhotos || w.cfg.IncludePhotos
	hut, err := svc.ConvertRaw(ctx, []byte(event.Record), includePhotos)
	w.metrics.ObserveConversion(event.Source, err)
	if err != nil {
		var convErr *service.ConversionError
		if errors.As(err, &convErr) && convErr.SourceID != "" {
			done.SourceID = convErr.SourceID
		}
		w.Logger().Warn("Conversion failed",
			zap.String("job_id", event.JobID.String()),
			zap.String("source", event.Source),
			zap.String("source_id", done.SourceID),
			zap.Error(err))
		done.Error = err.Error()
		return done
	}

	done.Hut = hut
	return done
}

func parseMessage(msg domain.StreamMessage) (*domain.HutConvertEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing or empty 'data' field")
	}

	var event domain.HutConvertEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return &event, nil
}

// recordID - source_id HutSource или id самой записи
func recordID(raw json.RawMessage) string {
	var ids struct {
		SourceID any `json:"source_id"`
		ID       any `json:"id"`
	}
	if err := json.Unmarshal(raw, &ids); err != nil {
		return ""
	}
	for _, v := range []any{ids.SourceID, ids.ID} {
		switch id := v.(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			return fmt.Sprintf("%.0f", id)
		}
	}
	return ""
}

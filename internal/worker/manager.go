package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout - сколько Stop ждет завершения текущих батчей
const DefaultShutdownTimeout = 30 * time.Second

// ErrNoWorkers - Start вызван без зарегистрированных воркеров
var ErrNoWorkers = errors.New("no workers registered")

// WorkerManager запускает воркеры в отдельных горутинах и останавливает их вместе
type WorkerManager struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu      sync.Mutex
	workers []Worker
	wg      sync.WaitGroup
	errs    []error
}

func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{
		logger:          logger,
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// WithShutdownTimeout меняет таймаут остановки
func (m *WorkerManager) WithShutdownTimeout(d time.Duration) *WorkerManager {
	m.shutdownTimeout = d
	return m
}

func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Worker(nil), m.workers...)
}

// Start запускает все воркеры и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return ErrNoWorkers
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()
			err := w.Start(ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}
			m.logger.Error("Worker failed", zap.String("name", w.Name()), zap.Error(err))
			m.mu.Lock()
			m.errs = append(m.errs, fmt.Errorf("%s: %w", w.Name(), err))
			m.mu.Unlock()
		}(w)
	}

	return nil
}

// Stop сигнализирует всем воркерам и ждет их не дольше shutdownTimeout.
// Возвращает ошибки, с которыми завершились воркеры.
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker", zap.String("name", w.Name()), zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped")
	case <-time.After(m.shutdownTimeout):
		return fmt.Errorf("workers shutdown timed out after %v", m.shutdownTimeout)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}

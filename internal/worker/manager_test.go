package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingWorker ждет Stop, либо сразу возвращает err
type blockingWorker struct {
	*BaseWorker
	err   error
	block bool
}

func (w *blockingWorker) Start(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	if !w.block {
		<-w.StopChan()
		return nil
	}
	select {}
}

func newBlocking(name string) *blockingWorker {
	return &blockingWorker{BaseWorker: NewBaseWorker(name, "group", zap.NewNop())}
}

func TestBaseWorker_Stop(t *testing.T) {
	w := NewBaseWorker("test", "group", zap.NewNop())
	assert.Equal(t, "test", w.Name())
	assert.Equal(t, "group", w.ConsumerGroup())
	assert.False(t, w.IsStopped())

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())

	select {
	case <-w.StopChan():
	default:
		t.Fatal("stop channel is not closed")
	}
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	assert.ErrorIs(t, m.Start(context.Background()), ErrNoWorkers)
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	a, b := newBlocking("a"), newBlocking("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_CollectsErrors(t *testing.T) {
	m := NewWorkerManager(zap.NewNop())
	failing := newBlocking("failing")
	failing.err = errors.New("consumer group missing")
	m.Register(failing)
	m.Register(newBlocking("ok"))

	require.NoError(t, m.Start(context.Background()))
	err := m.Stop()
	assert.ErrorContains(t, err, "failing: consumer group missing")
}

func TestWorkerManager_Timeout(t *testing.T) {
	m := NewWorkerManager(zap.NewNop()).WithShutdownTimeout(20 * time.Millisecond)
	stuck := newBlocking("stuck")
	stuck.block = true
	m.Register(stuck)

	require.NoError(t, m.Start(context.Background()))
	assert.ErrorContains(t, m.Stop(), "timed out")
}

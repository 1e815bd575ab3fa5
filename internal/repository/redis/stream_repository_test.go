package redis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hut-services/internal/domain"
	redisRepo "github.com/hut-services/internal/repository/redis"
)

const (
	testStream = "test:stream:hut:convert"
	testGroup  = "test-group"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func publishEvent(t *testing.T, client *redis.Client, source string) uuid.UUID {
	t.Helper()
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	id := uuid.New()
	err := repo.PublishToStream(context.Background(), testStream, &domain.HutConvertEvent{
		JobID:  id,
		Source: source,
		Record: json.RawMessage(`{"id":1}`),
	})
	require.NoError(t, err)
	return id
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	// повторное создание не ошибка (BUSYGROUP)
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	jobID := publishEvent(t, client, "osm")

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testStream, "0"},
		Count:   1,
		Block:   -1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.HutConvertEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, jobID, received.JobID)
	assert.Equal(t, "osm", received.Source)
	assert.JSONEq(t, `{"id":1}`, string(received.Record))
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))

	// группа читает с начала стрима
	publishEvent(t, client, "osm")
	publishEvent(t, client, "refuges")
	publishEvent(t, client, "wikidata")

	messages, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 2, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	var first domain.HutConvertEvent
	require.NoError(t, json.Unmarshal([]byte(messages[0].Data), &first))
	assert.Equal(t, "osm", first.Source)

	pending, err := client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending.Count)

	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, []string{messages[0].ID, messages[1].ID}))

	pending, err = client.XPending(ctx, testStream, testGroup).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	rest, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, []string{rest[0].ID}))

	empty, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStreamRepository_AckMessages_Empty(t *testing.T) {
	client := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())

	assert.NoError(t, repo.AckMessages(context.Background(), testStream, testGroup, nil))
}

func TestStreamRepository_ConsumePending(t *testing.T) {
	client := newTestClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, testGroup))
	jobID := publishEvent(t, client, "geocode")
	publishEvent(t, client, "osm")

	delivered, err := repo.ConsumeBatch(ctx, testStream, testGroup, "c1", 10, 0)
	require.NoError(t, err)
	require.Len(t, delivered, 2)
	require.NoError(t, repo.AckMessages(ctx, testStream, testGroup, []string{delivered[1].ID}))

	// неподтвержденное сообщение возвращается только своему consumer
	other, err := repo.ConsumePending(ctx, testStream, testGroup, "c2", 10)
	require.NoError(t, err)
	assert.Empty(t, other)

	pending, err := repo.ConsumePending(ctx, testStream, testGroup, "c1", 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, delivered[0].ID, pending[0].ID)

	var received domain.HutConvertEvent
	require.NoError(t, json.Unmarshal([]byte(pending[0].Data), &received))
	assert.Equal(t, jobID, received.JobID)
}

package redisstore

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emailid501-ux/optionsense-app/internal/config"
	"github.com/emailid501-ux/optionsense-app/internal/interfaces/mock"
	"github.com/emailid501-ux/optionsense-app/internal/models"
)

func testRedisConfig() *config.RedisConfig {
	return &config.RedisConfig{
		Enabled:        true,
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		SendTimeout:    time.Second,
	}
}

func TestGenerationStore_OpenSetsMarker(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), "gen:static-v1:!", "1", time.Duration(0)).Return(
		redis.NewStatusResult("OK", nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestGenerationStore_OpenError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		redis.NewStatusResult("", errors.New("connection refused")))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	_, err := gs.Open("static-v1")
	assert.Error(t, err)
}

func TestGenerationStore_ListParsesGenerationNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Scan(gomock.Any(), uint64(0), "gen:*", int64(scanBatch)).Return(
		redis.NewScanCmdResult([]string{
			"gen:static-v1:!",
			"gen:static-v1:GET /index.html",
			"gen:static-v2:!",
		}, 0, nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	names, err := gs.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"static-v1", "static-v2"}, names)
}

func TestGenerationStore_DeleteScansAndDeletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	keys := []string{"gen:static-v1:!", "gen:static-v1:GET /index.html"}
	client.EXPECT().Scan(gomock.Any(), uint64(0), "gen:static-v1:*", int64(scanBatch)).Return(
		redis.NewScanCmdResult(keys, 0, nil))
	client.EXPECT().Del(gomock.Any(), keys[0], keys[1]).Return(
		redis.NewIntResult(2, nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	assert.NoError(t, gs.Delete("static-v1"))
}

func TestGenerationStore_DeleteEmptyGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Scan(gomock.Any(), uint64(0), "gen:unknown:*", int64(scanBatch)).Return(
		redis.NewScanCmdResult(nil, 0, nil))
	// No Del call for an empty scan.

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	assert.NoError(t, gs.Delete("unknown"))
}

func TestGeneration_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	exchange := &models.CachedExchange{Status: 200, Body: []byte("payload"), CapturedAt: 1700000000}
	data, err := json.Marshal(exchange)
	require.NoError(t, err)

	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		redis.NewStatusResult("OK", nil))
	client.EXPECT().Get(gomock.Any(), "gen:static-v1:GET /index.html").Return(
		redis.NewStringResult(string(data), nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)

	got, found := store.Get("GET /index.html")
	require.True(t, found)
	assert.Equal(t, 200, got.Status)
	assert.Equal(t, []byte("payload"), got.Body)
}

func TestGeneration_GetMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		redis.NewStatusResult("OK", nil))
	client.EXPECT().Get(gomock.Any(), gomock.Any()).Return(
		redis.NewStringResult("", redis.Nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)

	got, found := store.Get("GET /missing")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestGeneration_GetCorruptedEntryIsDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		redis.NewStatusResult("OK", nil))
	client.EXPECT().Get(gomock.Any(), "gen:static-v1:GET /bad").Return(
		redis.NewStringResult("{not json", nil))
	client.EXPECT().Del(gomock.Any(), "gen:static-v1:GET /bad").Return(
		redis.NewIntResult(1, nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)

	_, found := store.Get("GET /bad")
	assert.False(t, found)
}

func TestGeneration_PutStoresWithoutExpiration(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), "gen:static-v1:!", "1", time.Duration(0)).Return(
		redis.NewStatusResult("OK", nil))
	client.EXPECT().Set(gomock.Any(), "gen:static-v1:GET /app.js", gomock.Any(), time.Duration(0)).Return(
		redis.NewStatusResult("OK", nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)

	store.Put("GET /app.js", &models.CachedExchange{Status: 200, Body: []byte("js")})
}

func TestGeneration_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(
		redis.NewStatusResult("OK", nil))
	client.EXPECT().Del(gomock.Any(), "gen:static-v1:GET /app.js").Return(
		redis.NewIntResult(1, nil))

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	store, err := gs.Open("static-v1")
	require.NoError(t, err)

	store.Delete("GET /app.js")
}

func TestGenerationStore_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockRedisClient(ctrl)

	client.EXPECT().Close().Return(nil)

	gs := NewGenerationStore(testRedisConfig(), client, zap.NewNop())
	assert.NoError(t, gs.Close())
}

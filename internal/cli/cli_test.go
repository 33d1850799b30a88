package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"trip-planner/internal/config"
	"trip-planner/internal/models"
)

func loadConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestPlanCmd_Request(t *testing.T) {
	tests := []struct {
		name    string
		cmd     PlanCmd
		wantErr bool
	}{
		{name: "prompted", cmd: PlanCmd{}},
		{name: "days without place", cmd: PlanCmd{Days: 2}, wantErr: true},
		{name: "place without days", cmd: PlanCmd{Place: "Rome"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.cmd.request()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, req)
		})
	}

	req, err := (&PlanCmd{Place: " Rome ", Days: 3, Interests: "art, food"}).request()
	require.NoError(t, err)
	assert.Equal(t, "Rome", req.Place)
	assert.Equal(t, 3, req.Days)
	assert.Equal(t, []string{"art", "food"}, req.Interests)
}

func TestOpenCache(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, backend := range []string{config.CacheMemory, config.CacheFile, config.CacheSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := loadConfig(t, "provider: osm\n")
			cfg.Cache.Backend = backend
			cfg.Cache.Path = filepath.Join(dir, backend+".cache")

			cache, closeCache, err := OpenCache(ctx, cfg)
			require.NoError(t, err)
			defer closeCache()

			require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{
				OriginID: "a", DestinationID: "b", DistanceMeters: 120, DurationSecs: 60,
			}))
			got, err := cache.Get(ctx, "a", "b")
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, 120.0, got.DistanceMeters)
		})
	}
}

func TestCacheClearCmd(t *testing.T) {
	cfg := loadConfig(t, "provider: osm\n")
	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Path = filepath.Join(t.TempDir(), "distances.json")
	ctx := context.Background()

	cache, closeCache, err := OpenCache(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, &models.DistanceCacheEntry{OriginID: "a", DestinationID: "b", DistanceMeters: 1}))
	closeCache()

	require.NoError(t, (&CacheClearCmd{}).Run(&Context{Ctx: ctx, Config: cfg}))

	cache, closeCache, err = OpenCache(ctx, cfg)
	require.NoError(t, err)
	defer closeCache()
	got, err := cache.Get(ctx, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewProviders(t *testing.T) {
	cfg := loadConfig(t, "provider: osm\n")

	p, d := NewProviders(cfg, nil)
	assert.Equal(t, "nominatim", p.Name())
	assert.Equal(t, "osrm", d.Name())

	cfg.Provider = config.ProviderGoogle
	cfg.Google.APIKey = "test-key"
	p, d = NewProviders(cfg, nil)
	assert.Equal(t, "google", p.Name())
	assert.Equal(t, "google", d.Name())
}

func TestKeyCommands(t *testing.T) {
	keyring.MockInit()
	ctx := &Context{Ctx: context.Background()}

	require.NoError(t, (&KeySetCmd{Value: "abc123"}).Run(ctx))
	key, err := config.GetAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)

	require.NoError(t, (&KeyDeleteCmd{}).Run(ctx))
	_, err = config.GetAPIKey()
	assert.ErrorIs(t, err, config.ErrAPIKeyNotFound)
}

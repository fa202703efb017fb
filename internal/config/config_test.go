package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "depot", cfg.MongoDB.DBName)
	assert.Equal(t, maxChunkSize, cfg.Import.ChunkSize)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
}

func TestLoadChunkSize(t *testing.T) {
	t.Run("override within bounds", func(t *testing.T) {
		t.Setenv("IMPORT_CHUNK_SIZE", "100")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Import.ChunkSize)
	})

	t.Run("rejects values above the store ceiling", func(t *testing.T) {
		t.Setenv("IMPORT_CHUNK_SIZE", "500")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("rejects non-numeric values", func(t *testing.T) {
		t.Setenv("IMPORT_CHUNK_SIZE", "plenty")
		_, err := Load("")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: "8080"},
			MongoDB:   MongoDBConfig{URI: "mongodb://localhost:27017", DBName: "depot"},
			Import:    ImportConfig{ChunkSize: 450},
			Reporting: ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "UTC"},
		}
	}

	t.Run("complete config passes", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("missing mongo uri fails", func(t *testing.T) {
		cfg := base()
		cfg.MongoDB.URI = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("zero chunk size fails", func(t *testing.T) {
		cfg := base()
		cfg.Import.ChunkSize = 0
		require.Error(t, cfg.Validate())
	})
}

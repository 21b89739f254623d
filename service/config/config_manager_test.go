package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadConfig_DefaultsWhenNoFile(t *testing.T) {
	manager := NewConfigManager(filepath.Join(t.TempDir(), "missing.yaml")).WithEnv(envFrom(nil))

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:23300", cfg.Server.Addr())
	assert.Equal(t, SourceFile, cfg.Artifacts.Source)
	assert.Equal(t, "ensemble_model.json", cfg.Artifacts.ModelName)
	assert.Equal(t, "data_processor.json", cfg.Artifacts.ProcessorName)
	assert.Equal(t, []string{"Gluten_content", "Protein_content", "Hardness"}, cfg.Features.Expected)
	assert.Len(t, cfg.Server.CORS.AllowedOrigins, 5)
	assert.True(t, cfg.Server.CORS.AllowCredentials)
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 8088
  base_context: /grain
logging:
  level: debug
artifacts:
  source: database
  model_name: model-v2
features:
  expected: [a, b]
  strict: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewConfigManager(path).WithEnv(envFrom(nil)).LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "/grain", cfg.Server.BaseContext)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, SourceDatabase, cfg.Artifacts.Source)
	assert.Equal(t, "model-v2", cfg.Artifacts.ModelName)
	// 未在文件中出现的字段保留默认值
	assert.Equal(t, "data_processor.json", cfg.Artifacts.ProcessorName)
	assert.Equal(t, []string{"a", "b"}, cfg.Features.Expected)
	assert.True(t, cfg.Features.Strict)
}

func TestLoadConfig_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"port":9000}}`), 0o600))

	cfg, err := NewConfigManager(path).WithEnv(envFrom(nil)).LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	manager := NewConfigManager(filepath.Join(t.TempDir(), "none.yaml")).WithEnv(envFrom(map[string]string{
		"LISTEN_PORT":          "8080",
		"LISTEN_HOST":          "0.0.0.0",
		"CORS_ALLOWED_ORIGINS": "http://a.example, http://b.example,",
		"ARTIFACT_SOURCE":      "REDIS",
		"ARTIFACT_DIR":         "/srv/models",
		"EXPECTED_FEATURES":    "x,y,z",
		"STRICT_FEATURES":      "true",
		"DB_PORT":              "6543",
		"REDIS_DB":             "3",
	}))

	cfg, err := manager.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, SourceRedis, cfg.Artifacts.Source)
	assert.Equal(t, "/srv/models", cfg.Artifacts.Dir)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Features.Expected)
	assert.True(t, cfg.Features.Strict)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad port", env: map[string]string{"LISTEN_PORT": "70000"}},
		{name: "unknown source", env: map[string]string{"ARTIFACT_SOURCE": "s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfigManager(filepath.Join(t.TempDir(), "none.yaml")).WithEnv(envFrom(tt.env)).LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [oops"), 0o600))

	_, err := NewConfigManager(path).WithEnv(envFrom(nil)).LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DefaultConfig().Database
	assert.Contains(t, db.DSN(), "host=localhost port=5432")

	db.URL = "postgres://u:p@h/db"
	assert.Equal(t, "postgres://u:p@h/db", db.DSN())
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
api:
  environment: "test"
  base_url: "localhost:8080"
  port: "8080"
  jwt_signing_key: "test-signing-key"
  allowed_cors_domains:
    - "http://localhost:3000"
gin:
  mode: "test"
postgres:
  host: "localhost"
  port: "5432"
  user: "contest"
  password: "contest"
  db_name: "contest"
  ssl_mode: "disable"
redis:
  host: "localhost"
  port: "6379"
  db: 0
contest:
  max_votes: 10
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeTestConfig(t, testConfigYAML))

	require.NoError(t, err)
	assert.Equal(t, "test", conf.API.Environment)
	assert.Equal(t, "test-signing-key", conf.API.JWTSigningKey)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "contest", conf.Postgres.DBName)
	assert.Equal(t, 10, conf.Contest.MaxVotes())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

	assert.Error(t, err)
}

func TestContestConfig_MaxVotesFallback(t *testing.T) {
	conf := &ContestConfig{}

	conf.SetMaxVotes(0)
	assert.Equal(t, defaultMaxVotes, conf.MaxVotes())

	conf.SetMaxVotes(-3)
	assert.Equal(t, defaultMaxVotes, conf.MaxVotes())

	conf.SetMaxVotes(5)
	assert.Equal(t, 5, conf.MaxVotes())
}

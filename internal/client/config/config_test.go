package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:8000/api", cfg.ServerBaseURL)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.ValidationDeadline)
	assert.Equal(t, "studynotes.db", cfg.DatabaseDSN)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "https://api.example.com", "-t", "30", "-d", "alt.db"}

	cfg := LoadConfig()

	assert.Equal(t, "https://api.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "alt.db", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Second, cfg.ValidationDeadline, "untouched by flags")
}

package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/studynotes/internal/flagx"
	"github.com/dmitrijs2005/studynotes/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL      string         `json:"server_base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	ValidationDeadline timex.Duration `json:"validation_deadline"`
	DatabaseDSN        string         `json:"database_dsn"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flags; with no such flag nothing is loaded.
// Empty fields in the file leave the corresponding Config value alone.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.ValidationDeadline.Duration > 0 {
		cfg.ValidationDeadline = time.Duration(jc.ValidationDeadline.Duration)
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
}

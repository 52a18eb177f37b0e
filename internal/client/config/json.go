package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/adminauth/internal/flagx"
	"github.com/dmitrijs2005/adminauth/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "15s" or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	PrefsDBPath    string         `json:"prefs_db_path"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c or -config flags (see flagx.JsonConfigFlags). When no file is given
// the function returns without touching cfg. Read and unmarshal errors panic
// (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.PrefsDBPath != "" {
		cfg.PrefsDBPath = jc.PrefsDBPath
	}
}

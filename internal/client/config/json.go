package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/loveops/internal/flagx"
	"github.com/dmitrijs2005/loveops/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell a missing key apart from a zero value.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DBPath              *string         `json:"db_path"`
	SyncDebounce        *timex.Duration `json:"sync_debounce"`
	SyncRetryDelay      *timex.Duration `json:"sync_retry_delay"`
	LogFile             *string         `json:"log_file"`
	LogLevel            *string         `json:"log_level"`
	ExportDir           *string         `json:"export_dir"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Without either flag it does nothing. Read or decode errors panic.
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

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogFile, jc.LogFile)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.ExportDir, jc.ExportDir)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SyncDebounce != nil {
		cfg.SyncDebounce = jc.SyncDebounce.Duration
	}
	if jc.SyncRetryDelay != nil {
		cfg.SyncRetryDelay = jc.SyncRetryDelay.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

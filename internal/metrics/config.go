package metrics

import (
	"os"
	"strconv"
)

// Config holds OTLP exporter configuration.
type Config struct {
	Endpoint string
	Enabled  bool
	Insecure bool
}

// LoadConfig loads exporter configuration from environment variables.
func LoadConfig() Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) Config {
	enabled, _ := strconv.ParseBool(getenv("M3RUN_OTEL_ENABLED"))
	insecure, _ := strconv.ParseBool(getenv("M3RUN_OTEL_INSECURE"))

	return Config{
		Endpoint: getenv("M3RUN_OTEL_ENDPOINT"),
		Enabled:  enabled,
		Insecure: insecure,
	}
}

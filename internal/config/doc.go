// Package config loads the monitor configuration from config.yaml.
//
// Config fields:
//   - HTTPPort        — port for the REST API, WebSocket hub and /metrics (default 8080)
//   - LogLevel        — debug|info|warn|error (default info, hot-reloadable)
//   - Auth.Mode       — "apikey" or "none"
//   - Auth.KeyEnv     — environment variable holding the expected API key
//   - Auth.Header     — HTTP header name (default "x-api-key")
//   - Intake.Buffer   — intake queue depth (default 128)
//   - Shelves.*       — per-shelf capacities (defaults 15/15/15, overflow 20)
//   - Courier.*Delay  — pickup delay bounds (defaults 20s–100s, hot-reloadable)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) hot-reloads the file on write.
package config

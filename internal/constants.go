package internal

const (
	APP_NAME    = "Min-CC"
	APP_VERSION = "1.0.0"

	DEFAULT_MODEL    = "x-ai/grok-4.1-fast"
	DEFAULT_BASE_URL = "https://openrouter.ai/api/v1"

	DEFAULT_CONFIG_PATH = "./data/config.toml"
	DEFAULT_DATA_DIR    = "./data"
	DEFAULT_LOG_DIR     = "./logs"

	// Compaction
	TOKEN_LIMIT_FALLBACK     = 12800
	TOKEN_LIMIT_PERCENTAGE   = 0.4
	CHARS_PER_TOKEN          = 4
	TRUNCATE_KEEP_COUNT      = 10
	SUMMARIZE_PRESERVE_COUNT = 3

	// Tools
	DEFAULT_BASH_TIMEOUT = 30
	GREP_LINE_CHAR       = 50

	// UI
	TRIM_TOOL_CALL_ARGS = 50

	DEFAULT_API_TIMEOUT = 120
)

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const PathEnvVar = "CONFIG_PATH"

var defaultPaths = []string{"config.yaml", "config.yml"}

// envKeys maps flat environment variable names onto koanf paths.
var envKeys = map[string]string{
	"APP_ADDR":               "server.addr",
	"ALLOWED_ORIGINS":        "server.allowed_origins",
	"MAX_BODY_BYTES":         "server.max_body_bytes",
	"RATE_LIMIT_RPS":         "server.rate_limit_rps",
	"RATE_LIMIT_BURST":       "server.rate_limit_burst",
	"STORAGE_DRIVER":         "storage.driver",
	"DB_DSN":                 "storage.postgres_dsn",
	"DB_URL":                 "storage.mongo_uri",
	"MONGO_DATABASE":         "storage.mongo_database",
	"DB_CONNECT_ATTEMPTS":    "storage.connect_attempts",
	"DB_QUERY_TIMEOUT":       "storage.query_timeout",
	"KITSU_BASE_URL":         "kitsu.base_url",
	"KITSU_USER_AGENT":       "kitsu.user_agent",
	"KITSU_TIMEOUT":          "kitsu.timeout",
	"KITSU_RPS":              "kitsu.rps",
	"KITSU_MAX_RETRIES":      "kitsu.max_retries",
	"RECOMMEND_QUOTA":        "recommend.quota",
	"RECOMMEND_PAGE_SIZE":    "recommend.page_size",
	"RECOMMEND_MAX_ATTEMPTS": "recommend.max_attempts",
	"RECOMMEND_RESULT_CAP":   "recommend.result_cap",
	"RECOMMEND_TRENDING":     "recommend.trending_limit",
	"RECOMMEND_FALLBACK":     "recommend.fallback_genre",
	"JWT_SECRET":             "auth.jwt_secret",
	"JWT_TTL":                "auth.token_ttl",
	"LOG_LEVEL":              "log.level",
	"LOG_FORMAT":             "log.format",
}

// LoadEnvFiles loads .env and .env.local. Variables already present in the
// process environment win.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load layers defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if v, ok := k.Get("server.allowed_origins").(string); ok {
		if err := k.Set("server.allowed_origins", splitList(v)); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envTransform returns "" for variables we do not know, which koanf skips.
func envTransform(key string) string {
	return envKeys[key]
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

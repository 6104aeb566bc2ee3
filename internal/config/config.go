package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

type Mode string

const (
	ModeLocal      Mode = "local"
	ModeProduction Mode = "production"
)

const (
	LLMBackendOpenAI = "openai"
	LLMBackendVertex = "vertex"
	LLMBackendMock   = "mock"

	StorageRedis     = "redis"
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
)

type Config struct {
	Mode Mode `yaml:"mode"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	LLMBackend    string `yaml:"llm_backend"` // "openai", "vertex" or "mock"
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	ModelName     string `yaml:"model_name"`
	MaxTokens     int    `yaml:"max_tokens"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`

	SearchBaseURL   string `yaml:"search_base_url"`
	SearchLimit     int    `yaml:"search_limit"`
	CommerceBaseURL string `yaml:"commerce_base_url"`

	StorageBackend string        `yaml:"storage_backend"` // "redis", "memory" or "firestore"
	RedisHost      string        `yaml:"redis_host"`
	RedisPort      int           `yaml:"redis_port"`
	RedisDB        int           `yaml:"redis_db"`
	RedisPrefix    string        `yaml:"redis_prefix"`
	SessionTTL     time.Duration `yaml:"session_ttl"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// RedisAddr is host:port of the session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + strconv.Itoa(c.RedisPort)
}

func defaults(mode Mode) *Config {
	cfg := &Config{
		Mode:           mode,
		Port:           "6000",
		LogLevel:       "info",
		LLMBackend:     LLMBackendOpenAI,
		ModelName:      "gpt-3.5-turbo",
		MaxTokens:      100,
		GCPLocation:    "us-central1",
		SearchLimit:    5,
		StorageBackend: StorageRedis,
		RedisHost:      "localhost",
		RedisPort:      6379,
		RedisPrefix:    "stylist",
		SessionTTL:     domain.DefaultSessionTTL,
		HTTPTimeout:    30 * time.Second,
	}
	if mode == ModeLocal {
		cfg.LLMBackend = LLMBackendMock
		cfg.StorageBackend = StorageMemory
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return n, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return d, nil
}

// Load builds the config from defaults, then the optional YAML file at path,
// then environment variables.
func Load(path string) (*Config, error) {
	mode := ModeProduction
	if getEnv("STYLIST_MODE", "") == string(ModeLocal) {
		mode = ModeLocal
	}
	cfg := defaults(mode)

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config file %s", path)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var err error

	c.Port = getEnv("STYLIST_PORT", c.Port)
	c.LogLevel = getEnv("STYLIST_LOG_LEVEL", c.LogLevel)

	c.LLMBackend = getEnv("STYLIST_LLM_BACKEND", c.LLMBackend)
	c.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = getEnv("STYLIST_OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.ModelName = getEnv("STYLIST_MODEL_NAME", c.ModelName)
	if c.MaxTokens, err = getIntEnv("STYLIST_MAX_TOKENS", c.MaxTokens); err != nil {
		return err
	}

	c.GCPProjectID = getEnv("STYLIST_GCP_PROJECT", c.GCPProjectID)
	c.GCPLocation = getEnv("STYLIST_GCP_LOCATION", c.GCPLocation)

	// Variable names kept from the original deployment.
	c.SearchBaseURL = getEnv("SCRAPER_BASE_URL", c.SearchBaseURL)
	c.CommerceBaseURL = getEnv("DA_BASE_URL", c.CommerceBaseURL)
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	if c.SearchLimit, err = getIntEnv("STYLIST_SEARCH_LIMIT", c.SearchLimit); err != nil {
		return err
	}

	c.StorageBackend = getEnv("STYLIST_STORAGE_BACKEND", c.StorageBackend)
	if c.RedisPort, err = getIntEnv("REDIS_PORT", c.RedisPort); err != nil {
		return err
	}
	if c.RedisDB, err = getIntEnv("REDIS_DB", c.RedisDB); err != nil {
		return err
	}
	c.RedisPrefix = getEnv("STYLIST_REDIS_PREFIX", c.RedisPrefix)
	if c.SessionTTL, err = getDurationEnv("STYLIST_SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.HTTPTimeout, err = getDurationEnv("STYLIST_HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks that every backend has what it needs.
func (c *Config) Validate() error {
	switch c.LLMBackend {
	case LLMBackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY must be set for the openai backend")
		}
	case LLMBackendVertex:
		if c.GCPProjectID == "" {
			return errors.New("STYLIST_GCP_PROJECT must be set for the vertex backend")
		}
	case LLMBackendMock:
	default:
		return errors.Errorf("unknown llm backend %q", c.LLMBackend)
	}

	switch c.StorageBackend {
	case StorageRedis, StorageMemory:
	case StorageFirestore:
		if c.GCPProjectID == "" {
			return errors.New("STYLIST_GCP_PROJECT must be set for the firestore storage backend")
		}
	default:
		return errors.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.MaxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}
	if c.SearchLimit <= 0 {
		return errors.New("search limit must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	return nil
}

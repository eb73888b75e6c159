package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no --config path is given and the file exists.
const DefaultConfigFile = "wearables.yaml"

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

type Config struct {
	HTTPPort       int    `yaml:"http_port"`
	DatabasePath   string `yaml:"database_path"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns"`
	UserID         int    `yaml:"user_id"`

	Storage       string `yaml:"storage"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	LLMProvider    string  `yaml:"llm_provider"`
	LLMBaseURL     string  `yaml:"llm_base_url"`
	LLMModel       string  `yaml:"llm_model"`
	LLMTemperature float64 `yaml:"llm_temperature"`
	// LLMAPIKey may be a #{VAR}# reference. When empty the provider's
	// conventional variable is consulted.
	LLMAPIKey string `yaml:"llm_api_key"`

	MaxToolRounds     int           `yaml:"max_tool_rounds"`
	TurnTimeout       time.Duration `yaml:"turn_timeout"`
	HistoryTokenLimit int           `yaml:"history_token_limit"`

	CORSOrigins          []string `yaml:"cors_origins"`
	CORSAllowCredentials bool     `yaml:"cors_allow_credentials"`

	GraphRender bool   `yaml:"graph_render"`
	MermaidURL  string `yaml:"mermaid_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	logger *zap.Logger
}

func defaults() *Config {
	return &Config{
		HTTPPort:             8000,
		DatabasePath:         "wearables.db",
		DBMaxOpenConns:       4,
		UserID:               1,
		Storage:              StorageMemory,
		MongoDatabase:        "wearables",
		LLMProvider:          "groq",
		LLMModel:             "llama-3.3-70b-versatile",
		LLMTemperature:       0,
		MaxToolRounds:        10,
		TurnTimeout:          120 * time.Second,
		HistoryTokenLimit:    0,
		CORSOrigins:          []string{"http://localhost:3000", "http://localhost:5173"},
		CORSAllowCredentials: true,
		GraphRender:          true,
		MermaidURL:           "https://mermaid.ink",
		LogLevel:             "info",
		LogFormat:            "console",
	}
}

// Load builds the configuration from defaults, then the YAML file at path,
// then .env, then the process environment.
func Load(path string, logger *zap.Logger) (*Config, error) {
	cfg := defaults()
	cfg.logger = logger

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No .env file found; falling back to system environment variables")
		} else {
			logger.Error("Config file load error", zap.Error(err))
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		logger.Debug("Successfully loaded .env file")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.resolveSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.logger.Debug("Loaded config file", zap.String("path", path))
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be an integer: %q", key, v))
				return
			}
			*dst = n
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be a boolean: %q", key, v))
				return
			}
			*dst = b
		}
	}

	setInt("HTTP_PORT", &c.HTTPPort)
	setString("DATABASE_PATH", &c.DatabasePath)
	setInt("DB_MAX_OPEN_CONNS", &c.DBMaxOpenConns)
	setInt("USER_ID", &c.UserID)
	setString("STORAGE", &c.Storage)
	setString("MONGO_URI", &c.MongoURI)
	setString("MONGO_DATABASE", &c.MongoDatabase)
	setString("LLM_PROVIDER", &c.LLMProvider)
	setString("LLM_BASE_URL", &c.LLMBaseURL)
	setString("LLM_MODEL", &c.LLMModel)
	setString("LLM_API_KEY", &c.LLMAPIKey)
	setInt("MAX_TOOL_ROUNDS", &c.MaxToolRounds)
	setInt("HISTORY_TOKEN_LIMIT", &c.HistoryTokenLimit)
	setBool("CORS_ALLOW_CREDENTIALS", &c.CORSAllowCredentials)
	setBool("GRAPH_RENDER", &c.GraphRender)
	setString("MERMAID_URL", &c.MermaidURL)
	setString("LOG_LEVEL", &c.LogLevel)
	setString("LOG_FORMAT", &c.LogFormat)

	if v, ok := lookup("LLM_TEMPERATURE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("LLM_TEMPERATURE must be a number: %q", v))
		} else {
			c.LLMTemperature = f
		}
	}
	if v, ok := lookup("TURN_TIMEOUT"); ok {
		d, err := parseTimeout(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("TURN_TIMEOUT must be a duration: %q", v))
		} else {
			c.TurnTimeout = d
		}
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

// resolveSecrets turns #{VAR}# references into values. A reference that
// cannot be resolved leaves the field empty so the model stays uninitialized.
func (c *Config) resolveSecrets() {
	if c.LLMAPIKey == "" {
		c.LLMAPIKey = "#{" + apiKeyVariable(c.LLMProvider) + "}#"
	}
	key, err := c.ResolveEnvironmentVariable(c.LLMAPIKey)
	if err != nil {
		c.logger.Warn("LLM API key unavailable", zap.Error(err))
	}
	c.LLMAPIKey = key

	uri, err := c.ResolveEnvironmentVariable(c.MongoURI)
	if err != nil {
		c.logger.Warn("Mongo URI unavailable", zap.Error(err))
	}
	c.MongoURI = uri
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT out of range: %d", c.HTTPPort))
	}
	if c.DatabasePath == "" {
		errs = append(errs, fmt.Errorf("DATABASE_PATH cannot be empty"))
	}
	if c.DBMaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive: %d", c.DBMaxOpenConns))
	}
	if c.MaxToolRounds < 1 {
		errs = append(errs, fmt.Errorf("MAX_TOOL_ROUNDS must be positive: %d", c.MaxToolRounds))
	}
	if c.TurnTimeout <= 0 {
		errs = append(errs, fmt.Errorf("TURN_TIMEOUT must be positive: %s", c.TurnTimeout))
	}
	if c.HistoryTokenLimit < 0 {
		errs = append(errs, fmt.Errorf("HISTORY_TOKEN_LIMIT cannot be negative: %d", c.HistoryTokenLimit))
	}
	switch c.Storage {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			errs = append(errs, fmt.Errorf("MONGO_URI is required for mongo storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage: %s", c.Storage))
	}
	return errors.Join(errs...)
}

func (c *Config) ResolveEnvironmentVariable(value string) (string, error) {
	const prefix, suffix = "#{", "}#"
	if strings.HasPrefix(value, prefix) && strings.HasSuffix(value, suffix) {
		varName := strings.TrimSuffix(strings.TrimPrefix(value, prefix), suffix)
		if varName == "" {
			return "", fmt.Errorf("empty variable name in reference: %s", value)
		}

		resolved := os.Getenv(varName)
		if resolved == "" {
			c.logger.Warn("Environment variable not found for reference",
				zap.String("reference", value),
				zap.String("var_name", varName))
			return "", fmt.Errorf("environment variable '%s' not found", varName)
		}

		c.logger.Debug("Resolved environment variable",
			zap.String("var_name", varName),
			zap.String("resolved", maskKey(resolved)))
		return resolved, nil
	}

	return value, nil
}

// NewLogger builds the process logger from LogLevel and LogFormat.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	var zc zap.Config
	if c.LogFormat == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// BootstrapLogger is used while the configuration itself is being read.
func BootstrapLogger() *zap.Logger {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func apiKeyVariable(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return "OPENAI_API_KEY"
	case "google":
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// parseTimeout accepts a Go duration or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

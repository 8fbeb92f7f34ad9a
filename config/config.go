package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Model providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// DefaultShareableIntents are the intents whose patterns may be stored with their answers.
// The workAuth.*, location.* and application.* ids are what older extension builds upload.
var DefaultShareableIntents = []string{
	"eeo.gender",
	"eeo.hispanic",
	"eeo.veteran",
	"eeo.disability",
	"eeo.race",
	"workAuthorization.authorizedUS",
	"workAuthorization.needsSponsorship",
	"workAuth.sponsorship",
	"workAuth.usAuthorized",
	"workAuth.driverLicense",
	"personal.city",
	"personal.state",
	"personal.country",
	"location.country",
	"location.state",
	"application.hasRelatives",
	"application.previouslyApplied",
}

// DefaultPatternOnlyIntents are shareable, but only the question is kept, never the answer.
var DefaultPatternOnlyIntents = []string{
	"personal.firstName",
	"personal.lastName",
	"personal.email",
	"personal.phone",
}

// Config 应用配置
type Config struct {
	Host string
	Port int

	DataDir      string
	PatternsFile string
	UsersDir     string
	StoreBackend string
	DBPath       string

	FuzzyMatchThreshold     float64
	PatternMemoryConfidence float64
	SaveConfidenceThreshold float64

	AIProvider   string
	AIAPIKey     string
	AIEndpoint   string
	AIModel      string
	MaxNewTokens int
	AITimeout    time.Duration

	ShareableIntents   []string
	PatternOnlyIntents []string

	RateLimitEnabled bool
	RateLimitPerIP   int
	RateLimitBurst   int

	MCPEnabled bool

	LogMode       string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// intentsFile is the YAML shape of INTENTS_FILE.
type intentsFile struct {
	Shareable   []string `yaml:"shareable"`
	PatternOnly []string `yaml:"patternOnly"`
}

// Load 加载配置（从 .env 文件和环境变量）
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "data")
	provider := strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI))

	cfg := &Config{
		Host:                    getEnv("HOST", "0.0.0.0"),
		Port:                    getEnvInt("PORT", 8001),
		DataDir:                 dataDir,
		PatternsFile:            getEnv("PATTERNS_FILE", filepath.Join(dataDir, "patterns.json")),
		UsersDir:                getEnv("USERS_DIR", filepath.Join(dataDir, "users")),
		StoreBackend:            strings.ToLower(getEnv("STORE_BACKEND", BackendJSON)),
		DBPath:                  parseDBPath(getEnv("DATABASE_URL", filepath.Join(dataDir, "ai-service.db"))),
		FuzzyMatchThreshold:     getEnvFloat("FUZZY_MATCH_THRESHOLD", 0.7),
		PatternMemoryConfidence: getEnvFloat("PATTERN_MEMORY_CONFIDENCE", 0.95),
		SaveConfidenceThreshold: getEnvFloat("SAVE_CONFIDENCE_THRESHOLD", 0.70),
		AIProvider:              provider,
		AIAPIKey:                getEnv("AI_API_KEY", ""),
		AIEndpoint:              getEnv("AI_ENDPOINT", "https://api.openai.com/v1/"),
		AIModel:                 getEnv("AI_MODEL", defaultModel(provider)),
		MaxNewTokens:            getEnvInt("MAX_NEW_TOKENS", 450),
		AITimeout:               getEnvDuration("AI_TIMEOUT", 30*time.Second),
		ShareableIntents:        getEnvList("SHAREABLE_INTENTS", DefaultShareableIntents),
		PatternOnlyIntents:      getEnvList("PATTERN_ONLY_INTENTS", DefaultPatternOnlyIntents),
		RateLimitEnabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitPerIP:          getEnvInt("RATE_LIMIT_PER_IP", 120),
		RateLimitBurst:          getEnvInt("RATE_LIMIT_BURST", 20),
		MCPEnabled:              getEnvBool("MCP_ENABLED", true),
		LogMode:                 getEnv("LOG_MODE", "development"),
		LogFile:                 getEnv("LOG_FILE", ""),
		LogMaxSizeMB:            getEnvInt("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups:           getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays:           getEnvInt("LOG_MAX_AGE_DAYS", 28),
	}

	if path := getEnv("INTENTS_FILE", ""); path != "" {
		if err := cfg.LoadIntentsFile(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadIntentsFile overrides the sharing lists with the ones in a YAML file.
// A list missing from the file keeps its current value.
func (c *Config) LoadIntentsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read intents file: %w", err)
	}

	var f intentsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse intents file %s: %w", path, err)
	}
	if f.Shareable != nil {
		c.ShareableIntents = f.Shareable
	}
	if f.PatternOnly != nil {
		c.PatternOnlyIntents = f.PatternOnly
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	for name, v := range map[string]float64{
		"FUZZY_MATCH_THRESHOLD":     c.FuzzyMatchThreshold,
		"PATTERN_MEMORY_CONFIDENCE": c.PatternMemoryConfidence,
		"SAVE_CONFIDENCE_THRESHOLD": c.SaveConfidenceThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}

	switch c.StoreBackend {
	case BackendJSON, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.AIProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q", c.AIProvider)
	}

	if c.MaxNewTokens <= 0 {
		return fmt.Errorf("MAX_NEW_TOKENS must be greater than 0")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be greater than 0")
	}
	if c.RateLimitEnabled && c.RateLimitPerIP <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_IP must be greater than 0")
	}

	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return "gpt-4o-mini"
}

// parseDBPath 解析数据库路径（兼容 sqlite:/// 前缀）
func parseDBPath(dbURL string) string {
	return strings.TrimPrefix(dbURL, "sqlite:///")
}

// getEnv 获取环境变量（带默认值）
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	value = strings.ToLower(strings.TrimSpace(value))
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt 获取整型环境变量
func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intVal
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// getEnvDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return append([]string(nil), defaultValue...)
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

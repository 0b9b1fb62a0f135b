// Package config loads service configuration from an optional .env file, an optional YAML file
// and HIRING_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/example/hiring-portal/internal/screening"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HIRING"

// Storage backends accepted by HIRING_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config captures the configuration values of the hiring service.
type Config struct {
	HTTPPort              int
	Storage               string
	SQLiteDSN             string
	Location              *time.Location
	GeminiAPIKey          string
	GeminiModel           string
	AnalysisTimeout       time.Duration
	DuplicateCompareLimit int
	NotifyQueueSize       int
	RankingWeights        screening.Weights
	Debug                 bool
}

// AnalysisEnabled reports whether an analysis backend is configured.
func (c Config) AnalysisEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigFile is an optional YAML file whose keys match the lower-cased variable names
	// without the prefix, e.g. http_port.
	ConfigFile string
	// EnvFiles are loaded with godotenv before reading the environment. Missing files are
	// ignored. Defaults to ".env".
	EnvFiles []string
}

var defaults = map[string]any{
	"http_port":                 8080,
	"storage":                   StorageSQLite,
	"sqlite_dsn":                "file:hiring.db?_pragma=foreign_keys(1)",
	"timezone":                  "UTC",
	"gemini_api_key":            "",
	"gemini_model":              "gemini-2.5-flash",
	"analysis_timeout":          "30s",
	"duplicate_compare_limit":   5,
	"notify_queue_size":         64,
	"ranking_weight_technical":  0.4,
	"ranking_weight_experience": 0.3,
	"ranking_weight_cultural":   0.2,
	"ranking_weight_leadership": 0.1,
	"debug":                     false,
}

// Load reads configuration with default options.
func Load() (Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions reads configuration, reporting every invalid value in a single error.
func LoadWithOptions(opts Options) (Config, error) {
	envFiles := opts.EnvFiles
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("設定ファイルを読み込めません (%s): %w", file, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("設定ファイルを読み込めません (%s): %w", opts.ConfigFile, err)
		}
	}

	p := parser{v: v}
	cfg := Config{
		HTTPPort:              p.positiveInt("http_port"),
		Storage:               p.oneOf("storage", StorageSQLite, StorageMemory),
		SQLiteDSN:             strings.TrimSpace(v.GetString("sqlite_dsn")),
		Location:              p.location("timezone"),
		GeminiAPIKey:          strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:           strings.TrimSpace(v.GetString("gemini_model")),
		AnalysisTimeout:       p.duration("analysis_timeout"),
		DuplicateCompareLimit: p.positiveInt("duplicate_compare_limit"),
		NotifyQueueSize:       p.positiveInt("notify_queue_size"),
		RankingWeights: screening.Weights{
			Technical:  p.float("ranking_weight_technical"),
			Experience: p.float("ranking_weight_experience"),
			Cultural:   p.float("ranking_weight_cultural"),
			Leadership: p.float("ranking_weight_leadership"),
		},
		Debug: p.bool("debug"),
	}

	if cfg.Storage == StorageSQLite && cfg.SQLiteDSN == "" {
		p.missing = append(p.missing, envName("sqlite_dsn"))
	}
	if cfg.AnalysisEnabled() && cfg.GeminiModel == "" {
		p.missing = append(p.missing, envName("gemini_model"))
	}
	if len(p.invalid) == 0 {
		if err := cfg.RankingWeights.Validate(); err != nil {
			p.invalid = append(p.invalid, "HIRING_RANKING_WEIGHT_*")
		}
	}

	if len(p.missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(p.missing, ", "))
	}
	if len(p.invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(p.invalid, ", "))
	}

	return cfg, nil
}

type parser struct {
	v       *viper.Viper
	missing []string
	invalid []string
}

func (p *parser) raw(key string) string {
	return strings.TrimSpace(p.v.GetString(key))
}

func (p *parser) positiveInt(key string) int {
	value, err := strconv.Atoi(p.raw(key))
	if err != nil || value <= 0 {
		p.invalid = append(p.invalid, envName(key))
		return 0
	}
	return value
}

func (p *parser) float(key string) float64 {
	value, err := strconv.ParseFloat(p.raw(key), 64)
	if err != nil || value < 0 {
		p.invalid = append(p.invalid, envName(key))
		return 0
	}
	return value
}

func (p *parser) duration(key string) time.Duration {
	value, err := time.ParseDuration(p.raw(key))
	if err != nil || value <= 0 {
		p.invalid = append(p.invalid, envName(key))
		return 0
	}
	return value
}

func (p *parser) bool(key string) bool {
	raw := p.raw(key)
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		p.invalid = append(p.invalid, envName(key))
		return false
	}
	return value
}

func (p *parser) oneOf(key string, allowed ...string) string {
	value := strings.ToLower(p.raw(key))
	for _, candidate := range allowed {
		if value == candidate {
			return value
		}
	}
	p.invalid = append(p.invalid, envName(key))
	return ""
}

func (p *parser) location(key string) *time.Location {
	loc, err := time.LoadLocation(p.raw(key))
	if err != nil {
		p.invalid = append(p.invalid, envName(key))
		return time.UTC
	}
	return loc
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

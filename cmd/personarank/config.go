package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/personarank/ai"
	"github.com/poiesic/personarank/ranking"
	"github.com/poiesic/personarank/warmup"
)

// Config is the on-disk configuration. Flags and environment variables
// override it field by field.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding"`
	OCR       OCRConfig       `yaml:"ocr"`
	Cache     CacheConfig     `yaml:"cache"`
	Ranking   ranking.Config  `yaml:"ranking"`
	Refine    RefineConfig    `yaml:"refine"`
	Warmup    warmup.Config   `yaml:"warmup"`

	Timeout       time.Duration `yaml:"timeout"`
	Degraded      bool          `yaml:"degraded"`
	BatchSize     int           `yaml:"batch_size"`
	PoolSize      int           `yaml:"pool_size"`
	MinTextLength int           `yaml:"min_text_length"`
}

type EmbeddingConfig struct {
	Backend  string `yaml:"backend"`
	Host     string `yaml:"host"`
	Model    string `yaml:"model"`
	APIToken string `yaml:"api_token"`
	ModelDir string `yaml:"model_dir"`
}

type OCRConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Languages []string `yaml:"languages"`
	DPI       int      `yaml:"dpi"`
}

// CacheConfig selects the embedding cache. Dir takes precedence over Memory.
type CacheConfig struct {
	Dir    string `yaml:"dir"`
	Memory int    `yaml:"memory"`
}

type RefineConfig struct {
	Sentences int `yaml:"sentences"`
	Chars     int `yaml:"chars"`
}

func defaultConfig() *Config {
	aiCfg := ai.DefaultConfig()
	return &Config{
		Embedding: EmbeddingConfig{
			Backend:  string(aiCfg.Backend),
			Host:     aiCfg.EmbeddingHost,
			Model:    aiCfg.EmbeddingModel,
			APIToken: aiCfg.APIToken,
			ModelDir: aiCfg.ModelDir,
		},
		OCR:     OCRConfig{Enabled: true, Languages: []string{"eng"}, DPI: 200},
		Ranking: ranking.DefaultConfig(),
		Refine: RefineConfig{
			Sentences: ranking.DefaultRefineSentences,
			Chars:     ranking.DefaultRefineChars,
		},
		Warmup:        *warmup.DefaultConfig(),
		MinTextLength: -1,
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag the user set on the command line
// or through its environment variable.
func applyFlags(c *cli.Context, cfg *Config) error {
	setString(c, "embedding-backend", &cfg.Embedding.Backend)
	setString(c, "embedding-host", &cfg.Embedding.Host)
	setString(c, "embedding-model", &cfg.Embedding.Model)
	setString(c, "api-token", &cfg.Embedding.APIToken)
	setString(c, "model-dir", &cfg.Embedding.ModelDir)
	setString(c, "cache-dir", &cfg.Cache.Dir)
	setInt(c, "cache-memory", &cfg.Cache.Memory)
	setInt(c, "batch-size", &cfg.BatchSize)
	setInt(c, "pool-size", &cfg.PoolSize)
	setInt(c, "min-text-length", &cfg.MinTextLength)
	setInt(c, "dpi", &cfg.OCR.DPI)
	setInt(c, "max-count", &cfg.Ranking.MaxCount)
	setInt(c, "max-per-document", &cfg.Ranking.MaxPerDocument)
	setString(c, "search", &cfg.Ranking.Search)
	setInt(c, "report-interval", &cfg.Warmup.ReportInterval)
	setInt(c, "max-retries", &cfg.Warmup.MaxRetries)

	if c.IsSet("no-ocr") {
		cfg.OCR.Enabled = !c.Bool("no-ocr")
	}
	if c.IsSet("ocr-lang") {
		cfg.OCR.Languages = c.StringSlice("ocr-lang")
	}
	if c.IsSet("degraded") {
		cfg.Degraded = c.Bool("degraded")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("retry-delay") {
		cfg.Warmup.RetryDelay = c.Duration("retry-delay")
	}
	if c.IsSet("min-score") {
		cfg.Ranking.MinScore = c.Float64("min-score")
	}
	if c.IsSet("duplicate-threshold") {
		cfg.Ranking.DuplicateThreshold = c.Float64("duplicate-threshold")
	}
	if c.IsSet("sort-by") {
		sortBy, err := ranking.ParseSortBy(c.String("sort-by"))
		if err != nil {
			return err
		}
		cfg.Ranking.SortBy = sortBy
	}
	if cfg.BatchSize > 0 {
		cfg.Warmup.BatchSize = cfg.BatchSize
	}
	return nil
}

// validate checks the merged configuration.
func (cfg *Config) validate() error {
	var errs []error
	if err := cfg.Ranking.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if cfg.Refine.Sentences < 1 || cfg.Refine.Chars < 1 {
		errs = append(errs, errors.New("refine sentences and chars must be at least 1"))
	}
	if cfg.Cache.Memory < 0 {
		errs = append(errs, errors.New("cache memory capacity cannot be negative"))
	}
	return errors.Join(errs...)
}

func (cfg *Config) aiConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithBackend(ai.Backend(cfg.Embedding.Backend)),
		ai.WithEmbeddingHost(cfg.Embedding.Host),
		ai.WithEmbeddingModel(cfg.Embedding.Model),
		ai.WithAPIToken(cfg.Embedding.APIToken),
		ai.WithModelDir(cfg.Embedding.ModelDir),
	)
}

func setString(c *cli.Context, name string, dst *string) {
	if c.IsSet(name) {
		*dst = c.String(name)
	}
}

func setInt(c *cli.Context, name string, dst *int) {
	if c.IsSet(name) {
		*dst = c.Int(name)
	}
}

package ranking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned when a Config fails validation.
var ErrInvalidConfig = errors.New("invalid ranking config")

// SortBy is the presentation order of the final list.
type SortBy string

const (
	SortByScore    SortBy = "score"
	SortByPage     SortBy = "page"
	SortByDocument SortBy = "document"
)

// ParseSortBy converts a user supplied sort key. Empty means score.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByScore:
		return SortByScore, nil
	case SortByPage:
		return SortByPage, nil
	case SortByDocument:
		return SortByDocument, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", ErrInvalidConfig, s)
	}
}

const (
	DefaultMaxCount           = 15
	DefaultDuplicateThreshold = 0.95
)

// Config controls filtering and ordering of a ranked list.
type Config struct {
	MaxCount int     `yaml:"max_count"`
	MinScore float64 `yaml:"min_score"`
	Search   string  `yaml:"search"`
	SortBy   SortBy  `yaml:"sort_by"`

	// DuplicateThreshold is the normalized text similarity at or above which
	// two sections of the same document collapse. Zero disables collapsing.
	DuplicateThreshold float64 `yaml:"duplicate_threshold"`

	// MaxPerDocument caps sections kept from any one document. Zero is unlimited.
	MaxPerDocument int `yaml:"max_per_document"`
}

// DefaultConfig returns the configuration used when the caller sets nothing.
func DefaultConfig() Config {
	return Config{
		MaxCount:           DefaultMaxCount,
		SortBy:             SortByScore,
		DuplicateThreshold: DefaultDuplicateThreshold,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxCount < 1 {
		return fmt.Errorf("%w: max count must be at least 1, got %d", ErrInvalidConfig, c.MaxCount)
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("%w: min score must be between 0 and 1, got %v", ErrInvalidConfig, c.MinScore)
	}
	if c.DuplicateThreshold < 0 || c.DuplicateThreshold > 1 {
		return fmt.Errorf("%w: duplicate threshold must be between 0 and 1, got %v", ErrInvalidConfig, c.DuplicateThreshold)
	}
	if c.MaxPerDocument < 0 {
		return fmt.Errorf("%w: max per document cannot be negative, got %d", ErrInvalidConfig, c.MaxPerDocument)
	}
	if _, err := ParseSortBy(string(c.SortBy)); err != nil {
		return err
	}
	return nil
}

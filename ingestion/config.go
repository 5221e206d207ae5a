package ingestion

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/saarthi/versestore"
)

// SourceConfig declares which source tag each file carries.
//
//	pattern = "*.csv"
//
//	[sources]
//	"gita.csv" = "Bhagavad Gita"
//	"patanjali*.csv" = "Yoga Sutras"
type SourceConfig struct {
	Pattern string                   `toml:"pattern"`
	Sources versestore.SourceMapping `toml:"sources"`
}

// LoadSourceConfig reads a TOML source mapping file.
func LoadSourceConfig(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSourceConfig(data)
}

// ParseSourceConfig decodes a TOML source mapping and checks its patterns.
func ParseSourceConfig(data []byte) (*SourceConfig, error) {
	var cfg SourceConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSourceConfig, err)
	}
	if _, err := versestore.NewTagger(cfg.Sources); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSourceConfig, err)
	}
	return &cfg, nil
}

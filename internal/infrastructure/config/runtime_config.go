package config

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/reglet-dev/batchqc/internal/infrastructure/ingest"
	"github.com/spf13/viper"
)

// Viper keys read from the config file or BATCHQC_* environment variables.
const (
	KeyFormat          = "format"
	KeyColor           = "color"
	KeyIngestSheet     = "ingest.sheet"
	KeyIngestDelimiter = "ingest.delimiter"
	KeyIngestHeader    = "ingest.header"
)

// RuntimeConfig aggregates all runtime configuration.
// This is a value object that flows through the system.
type RuntimeConfig struct {
	// Output
	Format string
	Color  bool

	// Ingest
	Sheet     string
	Delimiter rune
	Header    string
}

// RegisterDefaults sets the defaults for every runtime key.
func RegisterDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, "table")
	v.SetDefault(KeyColor, true)
	v.SetDefault(KeyIngestHeader, ingest.HeaderAuto)
}

// FromViper creates RuntimeConfig from the merged viper settings.
func FromViper(v *viper.Viper) (*RuntimeConfig, error) {
	cfg := &RuntimeConfig{
		Format: v.GetString(KeyFormat),
		Color:  v.GetBool(KeyColor),
		Sheet:  v.GetString(KeyIngestSheet),
		Header: v.GetString(KeyIngestHeader),
	}

	if delimiter := v.GetString(KeyIngestDelimiter); delimiter != "" {
		r, err := ParseDelimiter(delimiter)
		if err != nil {
			return nil, err
		}
		cfg.Delimiter = r
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults applies defaults for zero values.
func (r *RuntimeConfig) ApplyDefaults() {
	if r.Format == "" {
		r.Format = "table"
	}
	if r.Header == "" {
		r.Header = ingest.HeaderAuto
	}
}

// Validate checks the settings that cannot be checked by type alone.
func (r *RuntimeConfig) Validate() error {
	if !slices.Contains([]string{ingest.HeaderAuto, ingest.HeaderAlways, ingest.HeaderNever}, r.Header) {
		return fmt.Errorf("%s must be one of auto, always, never; got %q", KeyIngestHeader, r.Header)
	}
	return nil
}

// ParseDelimiter accepts a single character, or "tab" / "\t".
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", KeyIngestDelimiter, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("%s %q is not a valid field separator", KeyIngestDelimiter, s)
	}
	return r, nil
}

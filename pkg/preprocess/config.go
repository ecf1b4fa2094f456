package preprocess

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-siteroute/pkg/export"
	"github.com/dd0wney/cluso-siteroute/pkg/validation"
)

// OutputConfig selects the tile types written in one format and where.
type OutputConfig struct {
	// TileTypes to write; ":all" selects every processed tile type.
	TileTypes []string `yaml:"tileTypes" validate:"dive,required"`
	// Prefix is prepended to "<tile type>.<format>". It may name a local
	// directory ("out/route_") or an S3 location ("s3://bucket/run/").
	Prefix string `yaml:"prefix"`
}

// Enabled reports whether anything is selected.
func (o OutputConfig) Enabled() bool {
	return !export.NewSelection(o.TileTypes...).Empty()
}

// Config is the full run configuration.
type Config struct {
	// TileTypes to process. Empty or ":all" processes every tile type.
	TileTypes []string `yaml:"tileTypes" validate:"dive,required"`
	// Threads is the worker count; 0 uses every CPU.
	Threads int `yaml:"threads" validate:"gte=0"`

	JSON OutputConfig `yaml:"json"`
	DOT  OutputConfig `yaml:"dot"`

	OptimizeFormulas bool `yaml:"optimizeFormulas"`
	VerifyFormulas   bool `yaml:"verifyFormulas"`
	// DebugHints writes state names instead of ids in JSON output.
	DebugHints bool `yaml:"debugHints"`
	// MaxRoutesPerPair caps the routes kept per pin pair; 0 is unlimited.
	MaxRoutesPerPair int `yaml:"maxRoutesPerPair" validate:"gte=0"`

	// MetricsFile receives the run metrics in Prometheus text format.
	MetricsFile string `yaml:"metricsFile"`

	S3 export.S3Options `yaml:"s3"`
}

// DefaultConfig returns the configuration used when nothing is given:
// every tile type processed with optimized formulas and nothing written.
func DefaultConfig() Config {
	return Config{
		TileTypes:        []string{export.All},
		OptimizeFormulas: true,
	}
}

// LoadConfigFile reads a YAML config file over cfg. Keys absent from the
// file keep their value in cfg.
func LoadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Workers returns the effective worker count.
func (c Config) Workers() int {
	return validation.DefaultOrInt(c.Threads, runtime.NumCPU())
}

// Validate checks field constraints and output locations.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	cv := validation.NewConfigValidator("config").
		NonNegative("threads", c.Threads).
		NonNegative("maxRoutesPerPair", c.MaxRoutesPerPair).
		Unique("tileTypes", c.TileTypes).
		Location("json.prefix", c.JSON.Prefix).
		Location("dot.prefix", c.DOT.Prefix).
		When(c.VerifyFormulas && !c.OptimizeFormulas, func(cv *validation.ConfigValidator) {
			cv.Check("verifyFormulas", errors.New("requires optimizeFormulas"))
		}).
		When(c.S3.SecretAccessKey != "", func(cv *validation.ConfigValidator) {
			cv.Required("s3.accessKeyId", c.S3.AccessKeyID)
		}).
		Identifiers("tileTypes", c.TileTypes, export.All).
		Identifiers("json.tileTypes", c.JSON.TileTypes, export.All).
		Identifiers("dot.tileTypes", c.DOT.TileTypes, export.All)
	return cv.Validate()
}

// splitPrefix separates an output prefix into the sink location and the
// file name prefix: "out/route_" becomes "out/" and "route_".
func splitPrefix(prefix string) (location, name string) {
	if bucket, key, ok := export.ParseS3Location(prefix); ok {
		if key == "" || strings.HasSuffix(prefix, "/") {
			return prefix, ""
		}
		i := strings.LastIndex(key, "/")
		return "s3://" + bucket + "/" + key[:i+1], key[i+1:]
	}
	i := strings.LastIndex(prefix, "/")
	return prefix[:i+1], prefix[i+1:]
}

package bitmap

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultDB is the database filename used when none is configured
	DefaultDB = "bitmap.db"

	defaultWorkers     = 10
	defaultCompression = "default"
)

// Config controls where the catalog is stored and how directories are
// scanned.
type Config struct {
	DB          string   `yaml:"db"`
	Workers     int      `yaml:"workers"`
	Extensions  []string `yaml:"extensions"`
	Compression string   `yaml:"compression"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DB:          DefaultDB,
		Workers:     defaultWorkers,
		Extensions:  []string{".bmp"},
		Compression: defaultCompression,
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file
// keep their default value and a missing file yields the defaults.
func LoadConfig(file string) (Config, error) {
	config := DefaultConfig()

	b, err := ioutil.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, fmt.Errorf("failed to read configuration file '%s': %w", file, err)
	}

	if err := yaml.UnmarshalStrict(b, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration file '%s': %w", file, err)
	}

	return config, config.Validate()
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	switch {
	case c.DB == "":
		return errors.New("bitmap: no database configured")
	case c.Workers < 1:
		return fmt.Errorf("bitmap: need at least one worker, got %d", c.Workers)
	case len(c.Extensions) == 0:
		return errors.New("bitmap: no file extensions configured")
	}
	if ok, _ := zstd.EncoderLevelFromString(c.Compression); !ok {
		return fmt.Errorf("bitmap: unknown compression level %q", c.Compression)
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

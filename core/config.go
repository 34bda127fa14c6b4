package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/evilsocket/islazy/fs"
	"gopkg.in/yaml.v2"
)

const (
	APIKeyEnv       = "SOLAR_PUSH_APIKEY"
	DefaultTimezone = "Europe/Amsterdam"
	DefaultKeyFile  = "apikey.txt"
)

type Config struct {
	APIKey     string     `yaml:"api_key"`
	APIKeyFile string     `yaml:"api_key_file"`
	Timezone   string     `yaml:"timezone"`
	Metrics    string     `yaml:"metrics"`
	Remote     Remote     `yaml:"remote"`
	Trackers   []*Tracker `yaml:"trackers"`

	location *time.Location
}

// Defaults returns the configuration used when no file is given, it still
// needs to be compiled.
func Defaults() *Config {
	return &Config{
		APIKeyFile: DefaultKeyFile,
		Timezone:   DefaultTimezone,
		Remote: Remote{
			Endpoint:    DefaultEndpoint,
			TimeoutSecs: DefaultTimeout,
			BatchSize:   DefaultBatchSize,
		},
		Trackers: defaultTrackers(),
	}
}

// Load reads filename on top of the defaults and compiles the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	conf := Defaults()

	if err = yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}

	if err = conf.Compile(filepath.Dir(filename)); err != nil {
		return nil, err
	}

	return conf, nil
}

// Compile validates the configuration, resolves the timezone and loads the
// api key. Relative key file paths are resolved against baseDir.
func (c *Config) Compile(baseDir string) (err error) {
	if err = c.Remote.Compile(); err != nil {
		return err
	}

	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.location, err = time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("error loading timezone %s: %w", c.Timezone, err)
	}

	if len(c.Trackers) == 0 {
		return fmt.Errorf("no trackers configured")
	}

	seen := make(map[[2]uint8]bool)
	for _, t := range c.Trackers {
		if err = t.Compile(); err != nil {
			return err
		}
		key := [2]uint8{t.DeviceID, t.TrackerID}
		if seen[key] {
			return fmt.Errorf("tracker %d/%d is configured more than once", t.DeviceID, t.TrackerID)
		}
		seen[key] = true
	}

	if c.Metrics != "" {
		if c.Metrics, err = resolvePath(baseDir, c.Metrics); err != nil {
			return fmt.Errorf("error expanding metrics path: %w", err)
		}
	}

	return c.loadAPIKey(baseDir)
}

func (c *Config) loadAPIKey(baseDir string) error {
	if fromEnv := os.Getenv(APIKeyEnv); fromEnv != "" {
		c.APIKey = fromEnv
	} else if c.APIKey == "" {
		if c.APIKeyFile == "" {
			return fmt.Errorf("neither api_key nor api_key_file are set")
		}

		path, err := resolvePath(baseDir, c.APIKeyFile)
		if err != nil {
			return fmt.Errorf("error expanding %s: %w", c.APIKeyFile, err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error loading api key: %w", err)
		}
		c.APIKey = string(data)
	}

	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey == "" {
		return fmt.Errorf("api key is empty")
	}
	return checkHeaderValue("api key", c.APIKey)
}

// resolvePath expands ~ and makes relative paths relative to baseDir
// instead of the working directory.
func resolvePath(baseDir, path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		return fs.Expand(path)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return filepath.Abs(path)
}

// defaultLocation can not fail, tzdata is embedded.
func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		panic(fmt.Sprintf("error loading timezone %s: %v", DefaultTimezone, err))
	}
	return loc
}

// Location is the timezone sample timestamps are reported in, the default
// one if the configuration was not compiled.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return defaultLocation()
	}
	return c.location
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of source configurations.
type Loader struct {
	sourcesDir string
}

func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads all YAML configuration files from the sources directory,
// keyed by source name.
func (l *Loader) LoadAll() (map[string]*SourceConfig, error) {
	configs := make(map[string]*SourceConfig)

	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		config, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if err := l.validate(config); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs[config.Name] = config
		slog.Debug("Loaded source configuration", "file", file, "source", config.Name, "type", config.Type)
	}

	return configs, nil
}

func (l *Loader) loadFile(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	l.setDefaults(&config)

	return &config, nil
}

func (l *Loader) setDefaults(config *SourceConfig) {
	if config.Type == "" {
		if config.Scraper != nil {
			config.Type = TypeScrape
		} else {
			config.Type = TypeFeed
		}
	}

	if config.Scraper != nil {
		if config.Scraper.Platform == "" {
			config.Scraper.Platform = "generic"
		}
		if config.Scraper.RateLimitMs == 0 {
			config.Scraper.RateLimitMs = 400
		}
		if config.Scraper.MaxItems == 0 {
			config.Scraper.MaxItems = 25
		}
		if config.Scraper.Timeout == 0 {
			config.Scraper.Timeout = 15 // seconds
		}
	}
}

func (l *Loader) validate(config *SourceConfig) error {
	if config.Name == "" {
		return fmt.Errorf("source name is required")
	}

	if config.Type != TypeScrape && config.Type != TypeFeed {
		return fmt.Errorf("invalid source type: %s", config.Type)
	}

	// A missing URL or scraper block makes the source non-runnable, which
	// is a skip at sync time, not a load error.

	if config.Scraper != nil {
		if config.Scraper.RateLimitMs < 0 {
			return fmt.Errorf("rate_limit_ms must be non-negative")
		}
		if config.Scraper.MaxItems < 0 {
			return fmt.Errorf("max_items must be non-negative")
		}
		if config.Scraper.URLRules.Pattern != "" {
			if _, err := regexp.Compile(config.Scraper.URLRules.Pattern); err != nil {
				return fmt.Errorf("invalid url_rules.pattern: %w", err)
			}
		}
	}

	return nil
}

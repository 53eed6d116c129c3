package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Docs      DocsConfig      `yaml:"docs"`
	Highlight HighlightConfig `yaml:"highlight"`
	Site      SiteConfig      `yaml:"site"`
	History   HistoryConfig   `yaml:"history,omitempty"`
	Notify    NotifyConfig    `yaml:"notify,omitempty"`
	Preview   PreviewConfig   `yaml:"preview,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// GeneratorConfig describes the external documentation generator invocation.
type GeneratorConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
	Dir     string   `yaml:"dir,omitempty"`  // working directory, defaults to "."
	Skip    bool     `yaml:"skip,omitempty"` // reuse an existing tree instead of regenerating
}

// DocsConfig locates the generated HTML tree.
type DocsConfig struct {
	Root   string `yaml:"root"`             // generator output root
	Subdir string `yaml:"subdir,omitempty"` // restrict processing to one subdirectory
	Suffix string `yaml:"suffix,omitempty"` // file filter, defaults to ".html"
}

// ExtraPass is a user-supplied rewrite pass appended after the built-in table.
// The pattern must contain exactly one capture group; the group text is wrapped
// in a span carrying Class.
type ExtraPass struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Class   string `yaml:"class"`
}

// HighlightConfig tunes the rewrite engine.
type HighlightConfig struct {
	Workers int         `yaml:"workers,omitempty"` // parallel file workers, defaults to NumCPU (max 8)
	Verify  bool        `yaml:"verify,omitempty"`  // post-build span nesting verification
	Extra   []ExtraPass `yaml:"extra,omitempty"`
}

// SiteConfig controls the assembled static-site assets. Asset emission is
// driven by which fields are set: CNAME needs Domain, sitemap.xml needs
// BaseURL, landing pages need Pages.
type SiteConfig struct {
	Title   string   `yaml:"title,omitempty"`
	Domain  string   `yaml:"domain,omitempty"`   // written to CNAME
	BaseURL string   `yaml:"base_url,omitempty"` // absolute URL prefix for sitemap entries
	Robots  string   `yaml:"robots,omitempty"`   // "allow" or "disallow"
	Theme   bool     `yaml:"theme,omitempty"`    // emit the supplementary stylesheet
	Pages   []string `yaml:"pages,omitempty"`    // markdown files rendered as landing pages
}

// HistoryConfig enables the build-history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// NotifyConfig enables build-event publication. Publication is active only
// when URL is set.
type NotifyConfig struct {
	URL     string `yaml:"url,omitempty"` // nats://host:4222
	Subject string `yaml:"subject,omitempty"`
}

// PreviewConfig tunes the preview server.
type PreviewConfig struct {
	Addr         string `yaml:"addr,omitempty"`
	RebuildEvery string `yaml:"rebuild_every,omitempty"` // duration, "" disables periodic rebuilds
}

// LoggingConfig selects log level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// RobotsPolicy values accepted in SiteConfig.Robots.
const (
	RobotsAllow    = "allow"
	RobotsDisallow = "disallow"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "docpolish.yaml"

// Load loads configuration from the specified file, expands environment
// variables in the raw YAML, applies defaults, and validates. Validation
// failures (including extra-pass pattern compilation) are startup-fatal.
func Load(configPath string) (*Config, error) {
	// Load .env files if present so ${VAR} expansion below can see them.
	for _, envPath := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			break
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills in the zero values Load guarantees downstream code
// never sees.
func applyDefaults(config *Config) {
	if config.Generator.Command == "" {
		config.Generator.Command = "cargo"
		if len(config.Generator.Args) == 0 {
			config.Generator.Args = []string{"doc", "--no-deps"}
		}
	}
	if config.Generator.Dir == "" {
		config.Generator.Dir = "."
	}
	if config.Docs.Root == "" {
		config.Docs.Root = "target/doc"
	}
	if config.Docs.Suffix == "" {
		config.Docs.Suffix = ".html"
	}
	if config.Highlight.Workers <= 0 {
		config.Highlight.Workers = defaultWorkers()
	}
	if config.Site.Robots == "" {
		config.Site.Robots = RobotsAllow
	}
	if config.Site.Title == "" {
		config.Site.Title = "API Documentation"
	}
	if config.History.Enabled && config.History.Path == "" {
		config.History.Path = ".docpolish/history.db"
	}
	if config.Notify.URL != "" && config.Notify.Subject == "" {
		config.Notify.Subject = "docs.builds"
	}
	if config.Preview.Addr == "" {
		config.Preview.Addr = ":8090"
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Generator: GeneratorConfig{
			Command: "cargo",
			Args:    []string{"doc", "--no-deps"},
			Dir:     ".",
		},
		Docs: DocsConfig{
			Root:   "target/doc",
			Suffix: ".html",
		},
		Highlight: HighlightConfig{
			Workers: 4,
		},
		Site: SiteConfig{
			Title:   "My API Documentation",
			Domain:  "docs.example.com",
			BaseURL: "https://docs.example.com",
			Robots:  RobotsAllow,
			Theme:   true,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    ".docpolish/history.db",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

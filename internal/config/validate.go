package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docpolish/internal/foundation/normalization"
	"git.home.luguber.info/inful/docpolish/internal/highlight"
)

// Validate checks the configuration after defaults have been applied. Any
// failure here is startup-fatal: nothing downstream runs with a config that
// did not pass.
func Validate(cfg *Config) error {
	validator := newConfigValidator(cfg)
	return validator.validate()
}

// configValidator coordinates validation across the configuration domains.
type configValidator struct {
	config *Config
}

func newConfigValidator(config *Config) *configValidator {
	return &configValidator{config: config}
}

func (cv *configValidator) validate() error {
	if err := cv.validateGenerator(); err != nil {
		return err
	}
	if err := cv.validateDocs(); err != nil {
		return err
	}
	if err := cv.validateHighlight(); err != nil {
		return err
	}
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateHistory(); err != nil {
		return err
	}
	if err := cv.validateNotify(); err != nil {
		return err
	}
	return cv.validatePreview()
}

func (cv *configValidator) validateGenerator() error {
	if cv.config.Generator.Skip {
		return nil
	}
	if cv.config.Generator.Command == "" {
		return errors.New("generator.command cannot be empty unless generator.skip is set")
	}
	return nil
}

func (cv *configValidator) validateDocs() error {
	if cv.config.Docs.Root == "" {
		return errors.New("docs.root cannot be empty")
	}
	if cv.config.Docs.Suffix == "" {
		return errors.New("docs.suffix cannot be empty")
	}

	sub := cv.config.Docs.Subdir
	if sub == "" {
		return nil
	}
	if filepath.IsAbs(sub) {
		return fmt.Errorf("docs.subdir must be relative to docs.root: %s", sub)
	}
	for _, part := range strings.Split(filepath.ToSlash(sub), "/") {
		if part == ".." {
			return fmt.Errorf("docs.subdir must not escape docs.root: %s", sub)
		}
	}
	return nil
}

func (cv *configValidator) validateHighlight() error {
	if cv.config.Highlight.Workers < 1 {
		return fmt.Errorf("highlight.workers must be positive: %d", cv.config.Highlight.Workers)
	}

	seen := make(map[string]bool)
	for _, extra := range cv.config.Highlight.Extra {
		if seen[extra.Name] {
			return fmt.Errorf("duplicate highlight.extra pass name: %s", extra.Name)
		}
		seen[extra.Name] = true

		// Compile now so a bad pattern fails at startup, not mid-tree.
		if _, err := highlight.NewExtraPass(extra.Name, extra.Pattern, extra.Class); err != nil {
			return fmt.Errorf("highlight.extra %q: %w", extra.Name, err)
		}
	}
	return nil
}

var robotsNormalizer = normalization.NewNormalizer(map[string]string{
	RobotsAllow:    RobotsAllow,
	RobotsDisallow: RobotsDisallow,
}, RobotsAllow)

func (cv *configValidator) validateSite() error {
	robots, err := robotsNormalizer.NormalizeWithError(cv.config.Site.Robots)
	if err != nil {
		return fmt.Errorf("site.robots: %w", err)
	}
	cv.config.Site.Robots = robots

	if base := cv.config.Site.BaseURL; base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("invalid site.base_url: %s: %w", base, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("site.base_url must be an absolute http(s) URL: %s", base)
		}
	}

	if domain := cv.config.Site.Domain; domain != "" {
		if strings.Contains(domain, "/") || strings.Contains(domain, " ") {
			return fmt.Errorf("site.domain must be a bare hostname: %s", domain)
		}
	}

	for _, page := range cv.config.Site.Pages {
		if page == "" {
			return errors.New("site.pages entries cannot be empty")
		}
	}
	return nil
}

func (cv *configValidator) validateHistory() error {
	if cv.config.History.Enabled && cv.config.History.Path == "" {
		return errors.New("history.path is required when history.enabled is true")
	}
	return nil
}

func (cv *configValidator) validateNotify() error {
	if cv.config.Notify.URL == "" {
		return nil
	}
	if cv.config.Notify.Subject == "" {
		return errors.New("notify.subject is required when notify.url is set")
	}
	return nil
}

func (cv *configValidator) validatePreview() error {
	every := cv.config.Preview.RebuildEvery
	if every == "" {
		return nil
	}

	dur, err := time.ParseDuration(every)
	if err != nil {
		return fmt.Errorf("invalid preview.rebuild_every: %s: %w", every, err)
	}
	if dur <= 0 {
		return fmt.Errorf("preview.rebuild_every must be positive: %s", every)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
)

// Provider names accepted by provider.name
const (
	ProviderSporttery = "sporttery"
	ProviderExternal  = "external"
	ProviderMock      = "mock"
)

// Validate checks the configuration for values the service cannot start with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	switch c.Provider.Name {
	case ProviderSporttery:
		if c.Provider.Sporttery.BaseURL == "" {
			errs = append(errs, errors.New("provider.sporttery.base_url is required"))
		}
		if c.Provider.Sporttery.RateLimitPerSecond <= 0 {
			errs = append(errs, errors.New("provider.sporttery.rate_limit_per_second must be positive"))
		}
	case ProviderExternal:
		if c.Provider.ExternalAPI.AppKey == "" {
			errs = append(errs, errors.New("provider.external_api.app_key is required for the external provider"))
		}
	case ProviderMock:
	default:
		errs = append(errs, fmt.Errorf("unknown provider.name %q", c.Provider.Name))
	}

	if c.Alignment.ToleranceSeconds <= 0 {
		errs = append(errs, fmt.Errorf("alignment.tolerance_seconds must be positive, got %d", c.Alignment.ToleranceSeconds))
	}
	if c.Export.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("export.concurrency must be positive, got %d", c.Export.Concurrency))
	}
	if c.Crawler.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("crawler.concurrency must be positive, got %d", c.Crawler.Concurrency))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}

	return errors.Join(errs...)
}

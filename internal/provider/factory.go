package provider

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/sporttery-odds-service/internal/config"
	"github.com/cypherlabdev/sporttery-odds-service/internal/metrics"
	"github.com/cypherlabdev/sporttery-odds-service/internal/service"
)

// New selects the provider named by cfg
func New(cfg config.ProviderConfig, m *metrics.Metrics, logger zerolog.Logger) (service.Provider, error) {
	switch cfg.Name {
	case config.ProviderSporttery, "":
		return NewSportteryProvider(cfg.Sporttery, m, logger), nil
	case config.ProviderExternal:
		p, err := NewExternalAPIProvider(cfg.ExternalAPI, m, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create external provider: %w", err)
		}
		return p, nil
	case config.ProviderMock:
		return NewMockProvider(time.Now(), logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}

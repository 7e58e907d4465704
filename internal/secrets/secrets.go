package secrets

import (
	"context"
	"fmt"

	"github.com/kitbuilder587/osint-finder/internal/config"
)

// Provider - источник секретов. GetSecret возвращает domain.ErrSecretNotFound,
// если ключа нет.
type Provider interface {
	GetSecret(ctx context.Context, key string) (string, error)
	Close() error
}

func NewProvider(ctx context.Context, cfg config.SecretsConfig) (Provider, error) {
	switch cfg.Driver {
	case "", config.SecretsDriverEnv:
		return NewEnvProvider(cfg.Prefix), nil
	case config.SecretsDriverAWS:
		if cfg.Region == "" {
			return nil, config.ErrMissingRegion
		}
		return NewAWSProvider(ctx, cfg.Region, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unsupported secrets driver: %s", cfg.Driver)
	}
}

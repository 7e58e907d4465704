package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

type EnvProvider struct {
	prefix string
}

var _ Provider = (*EnvProvider)(nil)

func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix}
}

// GetSecret сначала ищет prefix+key, потом просто key
func (e *EnvProvider) GetSecret(ctx context.Context, key string) (string, error) {
	if e.prefix != "" {
		if v := os.Getenv(e.prefix + key); v != "" {
			return v, nil
		}
	}
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, key)
}

func (e *EnvProvider) Close() error {
	return nil
}

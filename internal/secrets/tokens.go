package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kitbuilder587/osint-finder/internal/domain"
)

const (
	BotTokensKey = "TELEGRAM_BOT_TOKENS"
	BotTokenKey  = "TELEGRAM_BOT_TOKEN"
)

// BotTokenSource достаёт список токенов ботов из Provider.
// Формат: "name=token,name2=token2" или просто "token1,token2".
type BotTokenSource struct {
	provider Provider
}

func NewBotTokenSource(p Provider) *BotTokenSource {
	return &BotTokenSource{provider: p}
}

func (s *BotTokenSource) BotCredentials(ctx context.Context) ([]domain.BotCredential, error) {
	for _, key := range []string{BotTokensKey, BotTokenKey} {
		raw, err := s.provider.GetSecret(ctx, key)
		if errors.Is(err, domain.ErrSecretNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load bot tokens: %w", err)
		}
		if creds := ParseBotTokens(raw); len(creds) > 0 {
			return creds, nil
		}
	}
	return nil, nil
}

func ParseBotTokens(raw string) []domain.BotCredential {
	var creds []domain.BotCredential
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, token := "", item
		// у токена телеграма нет '=', так что первый '=' отделяет имя
		if i := strings.IndexByte(item, '='); i >= 0 {
			name, token = strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+1:])
		}
		if token == "" {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("bot-%d", len(creds)+1)
		}
		creds = append(creds, domain.BotCredential{Name: name, Token: token})
	}
	return creds
}

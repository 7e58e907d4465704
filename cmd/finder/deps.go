package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-finder/internal/catalog"
	"github.com/kitbuilder587/osint-finder/internal/config"
	"github.com/kitbuilder587/osint-finder/internal/domain"
	"github.com/kitbuilder587/osint-finder/internal/metrics"
	"github.com/kitbuilder587/osint-finder/internal/secrets"
	"github.com/kitbuilder587/osint-finder/internal/telegram"
)

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	opts := catalog.Options{IncludeClosed: cfg.IncludeClosed}
	if cfg.Path != "" {
		return catalog.LoadFile(cfg.Path, opts)
	}
	return catalog.Default(opts)
}

// newProber возвращает prober и функцию закрытия secrets provider
func newProber(ctx context.Context, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*telegram.Prober, func() error, error) {
	provider, err := secrets.NewProvider(ctx, cfg.Secrets)
	if err != nil {
		return nil, nil, fmt.Errorf("create secrets provider: %w", err)
	}

	prober := telegram.NewProber(telegram.ProberConfig{
		APIEndpoint:     cfg.Telegram.APIEndpoint,
		Timeout:         cfg.Telegram.Timeout,
		RecentLimit:     cfg.Telegram.RecentLimit,
		IncludeMessages: cfg.Telegram.IncludeMessages,
		NotifyChatID:    cfg.Telegram.NotifyChatID,
	}, secrets.NewBotTokenSource(provider), logger, m)

	return prober, provider.Close, nil
}

// queryFromFlags: как в HTTP, только одно из полей обязательно
func queryFromFlags(cmd *cobra.Command, preferPhone bool) (domain.SearchQuery, error) {
	phone, _ := cmd.Flags().GetString("phone")
	username, _ := cmd.Flags().GetString("username")

	phoneQ, userQ := domain.NewPhoneQuery(phone), domain.NewUsernameQuery(username)

	var q domain.SearchQuery
	switch {
	case phoneQ.Raw != "" && (preferPhone || userQ.Raw == ""):
		q = phoneQ
	case userQ.Raw != "":
		q = userQ
	default:
		return q, errors.New("--phone or --username is required")
	}
	return q, q.Validate()
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("phone", "", "phone number to search")
	cmd.Flags().String("username", "", "username to search")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

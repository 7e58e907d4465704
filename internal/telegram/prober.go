package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-finder/internal/domain"
	"github.com/kitbuilder587/osint-finder/internal/metrics"
)

type ProberConfig struct {
	// формат как у tgbotapi.APIEndpoint: bot%s/%s
	APIEndpoint     string
	Timeout         time.Duration
	RecentLimit     int
	IncludeMessages bool
	NotifyChatID    int64
}

type CredentialSource interface {
	BotCredentials(ctx context.Context) ([]domain.BotCredential, error)
}

// Prober проверяет ботов по очереди: getMe, затем getUpdates (best-effort).
// Ретраев нет, каждый вызов ограничен таймаутом http клиента.
type Prober struct {
	cfg     ProberConfig
	creds   CredentialSource
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewProber(cfg ProberConfig, creds CredentialSource, logger *zap.Logger, m *metrics.Metrics) *Prober {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}

	return &Prober{
		cfg:     cfg,
		creds:   creds,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: m,
	}
}

func (p *Prober) ProbeAll(ctx context.Context, q domain.SearchQuery) ([]domain.BotProbeResult, error) {
	creds, err := p.creds.BotCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if len(creds) == 0 {
		return nil, domain.ErrNoBotTokens
	}

	results := make([]domain.BotProbeResult, 0, len(creds))
	for _, cred := range creds {
		results = append(results, p.Probe(cred, q))
	}
	return results, nil
}

func (p *Prober) Probe(cred domain.BotCredential, q domain.SearchQuery) domain.BotProbeResult {
	start := time.Now()

	res := domain.BotProbeResult{
		Source: cred.Name,
		Query:  q.Raw,
		Data:   map[string]any{},
	}

	api, err := tgbotapi.NewBotAPIWithClient(cred.Token, p.cfg.APIEndpoint, p.client)
	if err != nil {
		p.logger.Warn("bot probe failed",
			zap.String("source", cred.Name),
			zap.String("token", domain.MaskToken(cred.Token)),
			zap.Error(err),
		)
		res.Description = "Бот недоступен"
		res.Error = probeError(err)
		p.record(cred.Name, "unavailable", start)
		return res
	}

	messages := p.recentMessages(api, cred)

	self := api.Self
	info := domain.BotInfo{
		ID:                      self.ID,
		Username:                self.UserName,
		Name:                    self.FirstName,
		CanJoinGroups:           self.CanJoinGroups,
		CanReadAllGroupMessages: self.CanReadAllGroupMessages,
		SupportsInlineQueries:   self.SupportsInlineQueries,
	}

	res.Found = true
	res.Description = fmt.Sprintf("Бот @%s активен", self.UserName)
	res.Data["bot_info"] = info
	res.Data["search_term"] = q.Raw
	res.Data["type"] = q.Kind.String()
	res.Data["recent_activity"] = len(messages)
	if p.cfg.IncludeMessages {
		res.Data["recent_messages"] = messages
	}

	if p.cfg.NotifyChatID != 0 {
		p.notify(api, cred, q)
	}

	p.logger.Debug("bot probe done",
		zap.String("source", cred.Name),
		zap.String("bot_username", self.UserName),
		zap.Int("recent_activity", len(messages)),
	)
	p.record(cred.Name, "found", start)

	return res
}

// maxUpdatesBatch - максимум, который getUpdates отдаёт за раз
const maxUpdatesBatch = 100

// recentMessages - последние cfg.RecentLimit апдейтов, только сообщения.
// offset не передаём: отрицательный offset подтверждает (и удаляет) все более ранние апдейты бота.
// Ошибка getUpdates не фатальна (например, у бота стоит webhook).
func (p *Prober) recentMessages(api *tgbotapi.BotAPI, cred domain.BotCredential) []domain.RecentMessage {
	updates, err := api.GetUpdates(tgbotapi.UpdateConfig{Limit: maxUpdatesBatch})
	if err != nil {
		p.logger.Info("getUpdates failed, treating as no recent activity",
			zap.String("source", cred.Name),
			zap.Error(err),
		)
		return []domain.RecentMessage{}
	}

	if len(updates) > p.cfg.RecentLimit {
		updates = updates[len(updates)-p.cfg.RecentLimit:]
	}

	messages := make([]domain.RecentMessage, 0, len(updates))
	for _, u := range updates {
		if u.Message == nil {
			continue
		}
		messages = append(messages, domain.RecentMessage{
			FromUser: senderName(u.Message.From),
			Text:     u.Message.Text,
			Date:     int64(u.Message.Date),
		})
	}
	return messages
}

func (p *Prober) notify(api *tgbotapi.BotAPI, cred domain.BotCredential, q domain.SearchQuery) {
	msg := tgbotapi.NewMessage(p.cfg.NotifyChatID, fmt.Sprintf("Поиск (%s): %s", q.Kind, q.Raw))
	msg.DisableWebPagePreview = true
	if _, err := api.Send(msg); err != nil {
		p.logger.Warn("sendMessage failed",
			zap.String("source", cred.Name),
			zap.Int64("chat_id", p.cfg.NotifyChatID),
			zap.Error(err),
		)
	}
}

func (p *Prober) record(source, status string, start time.Time) {
	if p.metrics != nil {
		p.metrics.RecordBotProbe(source, status, time.Since(start))
	}
}

func senderName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if u.UserName != "" {
		return "@" + u.UserName
	}
	return u.FirstName
}

// probeError не отдаёт наружу текст сетевых ошибок: в url.Error лежит URL с токеном.
func probeError(err error) string {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("telegram api error %d: %s", apiErr.Code, apiErr.Message)
	}
	return domain.ErrBotUnavailable.Error()
}

package domain

import "strings"

// BotCredential - токен бота и имя, под которым он отображается в результатах
type BotCredential struct {
	Name  string
	Token string
}

type BotProbeResult struct {
	Source      string         `json:"source"`
	Description string         `json:"description"`
	Query       string         `json:"query"`
	Found       bool           `json:"found"`
	Data        map[string]any `json:"data"`
	Error       string         `json:"error,omitempty"`
}

type BotInfo struct {
	ID                      int64  `json:"bot_id"`
	Username                string `json:"bot_username"`
	Name                    string `json:"bot_name"`
	CanJoinGroups           bool   `json:"can_join_groups"`
	CanReadAllGroupMessages bool   `json:"can_read_all_group_messages"`
	SupportsInlineQueries   bool   `json:"supports_inline_queries"`
}

type RecentMessage struct {
	FromUser string `json:"from_user"`
	Text     string `json:"text"`
	Date     int64  `json:"date"`
}

// MaskToken оставляет только id бота (часть до двоеточия), для логов
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if i := strings.IndexByte(token, ':'); i > 0 {
		return token[:i] + ":***"
	}
	return "***"
}

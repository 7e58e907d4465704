package domain

import (
	"strings"
)

type QueryKind string

const (
	KindPhone    QueryKind = "phone"
	KindUsername QueryKind = "username"
)

func (k QueryKind) IsValid() bool {
	switch k {
	case KindPhone, KindUsername:
		return true
	default:
		return false
	}
}

func (k QueryKind) String() string {
	return string(k)
}

// SearchQuery - то, что ищем: номер телефона или username.
// Raw хранится как пришёл от клиента (только без пробелов по краям).
type SearchQuery struct {
	Kind QueryKind
	Raw  string
}

func NewPhoneQuery(raw string) SearchQuery {
	return SearchQuery{Kind: KindPhone, Raw: strings.TrimSpace(raw)}
}

func NewUsernameQuery(raw string) SearchQuery {
	return SearchQuery{Kind: KindUsername, Raw: strings.TrimSpace(raw)}
}

func (q SearchQuery) Validate() error {
	if !q.Kind.IsValid() {
		return ErrInvalidQueryKind
	}
	if strings.TrimSpace(q.Raw) == "" {
		return ErrEmptyQuery
	}
	return nil
}

// Normalized возвращает значение для подстановки в deep-link'и.
func (q SearchQuery) Normalized() string {
	switch q.Kind {
	case KindPhone:
		return NormalizePhone(q.Raw)
	case KindUsername:
		return NormalizeUsername(q.Raw)
	default:
		return q.Raw
	}
}

var phoneStripper = strings.NewReplacer("+", "", " ", "", "-", "")

func NormalizePhone(phone string) string {
	return phoneStripper.Replace(phone)
}

// NormalizeUsername убирает ровно один ведущий @
func NormalizeUsername(username string) string {
	return strings.TrimPrefix(username, "@")
}

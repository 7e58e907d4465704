package domain

import "errors"

var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrInvalidQueryKind = errors.New("invalid query kind")
)

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
)

var (
	ErrNoBotTokens    = errors.New("bot token not configured")
	ErrBotUnavailable = errors.New("bot api unavailable")
	ErrSecretNotFound = errors.New("secret not found")
)

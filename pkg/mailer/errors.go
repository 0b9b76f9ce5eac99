package mailer

import "errors"

var (
	ErrInvalidConfig   = errors.New("mailer: invalid configuration")
	ErrInvalidParams   = errors.New("mailer: invalid message parameters")
	ErrUnknownProvider = errors.New("mailer: unknown provider")
)

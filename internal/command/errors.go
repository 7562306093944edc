package command

import "errors"

// Command errors
var (
	ErrUnknownCommand   = errors.New("unknown command")
	ErrEmptyCommand     = errors.New("empty command id")
	ErrDuplicateCommand = errors.New("command already registered")
	ErrScript           = errors.New("lua script error")
)

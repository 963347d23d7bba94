package contract

import "errors"

var (
	ErrDataNotLoaded = errors.New("data is not loaded")
	ErrEmptyTable    = errors.New("required table is empty")
	ErrMissingColumn = errors.New("required column is missing")
	ErrUnknownTool   = errors.New("unknown tool")
)

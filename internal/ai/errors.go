package ai

import "errors"

var (
	ErrMissingAPIKey   = errors.New("llm api key is missing")
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrEmptyChoices    = errors.New("empty llm choices")
	ErrProviderConfig  = errors.New("llm provider config is invalid")
)

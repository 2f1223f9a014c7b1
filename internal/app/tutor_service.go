package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopherai-tutor/internal/ai"
	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
	"gopherai-tutor/internal/prompt"
)

const (
	MinQuestionChars = 3
	MaxQuestionChars = 1000
)

var (
	ErrQuestionEmpty    = errors.New("question is empty")
	ErrQuestionTooShort = errors.New("question is too short")
	ErrQuestionTooLong  = errors.New("question is too long")
)

// Outcome tags how an answer was produced.
type Outcome string

const (
	OutcomeSucceeded     Outcome = "succeeded"
	OutcomeQuotaExceeded Outcome = "quota_exceeded"
	OutcomeTimeout       Outcome = "timeout"
	OutcomeGeneralError  Outcome = "general_error"
)

type RequestState int

const (
	StateIdle RequestState = iota
	StateComposing
	StateAwaitingModel
	StateSucceeded
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StateAwaitingModel:
		return "awaiting_model"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Messages is the user-facing text catalog.
type Messages struct {
	APIKeyMissing string `toml:"api_key_missing"`
	QuotaExceeded string `toml:"quota_exceeded"`
	TimeoutError  string `toml:"timeout_error"`
	GeneralError  string `toml:"general_error"`
	ChatCleared   string `toml:"chat_cleared"`
	Thinking      string `toml:"thinking"`
	NoQuestion    string `toml:"no_question"`
}

func DefaultMessages() Messages {
	return Messages{
		APIKeyMissing: "\n⚠️ **API Key Required**: Please set your Gemini API key in the `.env` file to use this application.\n\n" +
			"**Steps to get started:**\n" +
			"1. Get your API key from [Google AI Studio](https://makersuite.google.com/app/apikey)\n" +
			"2. Replace `your_gemini_api_key_here` in the `.env` file with your actual API key\n" +
			"3. Restart the application\n",
		QuotaExceeded: "⚠️ **API Quota Exceeded**: The API request limit has been reached. Please try again later.",
		TimeoutError:  "⚠️ **Timeout Error**: The request took too long to process. Please try again with a shorter question.",
		GeneralError:  "⚠️ **Error**: Unable to process your request. Please check your API key and try again.",
		ChatCleared:   "Chat history cleared!",
		Thinking:      "🤔 Thinking about your %s question...",
		NoQuestion:    "Please enter a question before submitting.",
	}
}

// withDefaults fills blank entries so a partial catalog from config still works.
func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&m.APIKeyMissing, d.APIKeyMissing)
	fill(&m.QuotaExceeded, d.QuotaExceeded)
	fill(&m.TimeoutError, d.TimeoutError)
	fill(&m.GeneralError, d.GeneralError)
	fill(&m.ChatCleared, d.ChatCleared)
	fill(&m.Thinking, d.Thinking)
	fill(&m.NoQuestion, d.NoQuestion)
	return m
}

// ThinkingFor renders the in-progress notice for subject.
func (m Messages) ThinkingFor(subject string) string {
	return fmt.Sprintf(m.Thinking, subject)
}

// ValidateQuestion checks length bounds on the trimmed question, counted in characters.
func ValidateQuestion(question string) error {
	trimmed := strings.TrimSpace(question)
	if trimmed == "" {
		return ErrQuestionEmpty
	}
	n := utf8.RuneCountInString(trimmed)
	if n < MinQuestionChars {
		return ErrQuestionTooShort
	}
	if n > MaxQuestionChars {
		return ErrQuestionTooLong
	}
	return nil
}

// ValidationMessage maps a ValidateQuestion error to its display text.
func ValidationMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuestionEmpty):
		return "Please enter a question before submitting."
	case errors.Is(err, ErrQuestionTooShort):
		return "Please enter a more detailed question."
	case errors.Is(err, ErrQuestionTooLong):
		return fmt.Sprintf("Question is too long. Please keep it under %d characters.", MaxQuestionChars)
	default:
		return err.Error()
	}
}

// ClassifyFailure is a loose substring heuristic over the lowercased error text.
func ClassifyFailure(err error) Outcome {
	if err == nil {
		return OutcomeSucceeded
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "quota") || strings.Contains(text, "limit"):
		return OutcomeQuotaExceeded
	case strings.Contains(text, "timeout"):
		return OutcomeTimeout
	default:
		return OutcomeGeneralError
	}
}

type TutorConfig struct {
	Messages     Messages
	ModelWarning string
}

// TutorService answers one question at a time against a Generator. It holds no
// per-session state.
type TutorService struct {
	generator ai.Generator
	composer  *prompt.Composer
	messages  Messages
	warning   string
	log       *logger.Logger
}

type AskInput struct {
	Question        string
	Subject         model.Subject
	History         []model.Exchange
	ReferenceCorpus string
	// OnState observes request state transitions; optional.
	OnState func(RequestState)
}

type AskResult struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Outcome  Outcome `json:"outcome"`
}

func NewTutorService(generator ai.Generator, composer *prompt.Composer, cfg TutorConfig, log *logger.Logger) *TutorService {
	if composer == nil {
		composer = prompt.NewComposer("", prompt.DefaultMaxHistory, prompt.DefaultMaxReferenceChars)
	}
	return &TutorService{
		generator: generator,
		composer:  composer,
		messages:  cfg.Messages.withDefaults(),
		warning:   cfg.ModelWarning,
		log:       logger.OrNop(log).With("component", "TutorService"),
	}
}

func (s *TutorService) Messages() Messages {
	return s.messages
}

// ModelWarning is non-empty when the preferred model was replaced at startup.
func (s *TutorService) ModelWarning() string {
	return s.warning
}

func (s *TutorService) ModelName() string {
	if s.generator == nil {
		return ""
	}
	return s.generator.ModelName()
}

func (s *TutorService) Composer() *prompt.Composer {
	return s.composer
}

// Ask returns an error only when the question fails validation; the model is
// not called in that case. Remote failures come back as a display string with
// the matching Outcome.
func (s *TutorService) Ask(ctx context.Context, in AskInput) (AskResult, error) {
	notify := in.OnState
	if notify == nil {
		notify = func(RequestState) {}
	}
	notify(StateIdle)

	if err := ValidateQuestion(in.Question); err != nil {
		return AskResult{}, err
	}
	question := strings.TrimSpace(in.Question)

	notify(StateComposing)
	full := s.composer.Compose(in.Subject, in.History, in.ReferenceCorpus, question)

	notify(StateAwaitingModel)
	if s.generator == nil {
		notify(StateFailed)
		return s.failure(question, ai.ErrMissingAPIKey), nil
	}
	answer, err := s.generator.Generate(ctx, full)
	if err != nil {
		notify(StateFailed)
		s.log.Warn("model call failed", "subject", in.Subject.Name, "err", err)
		return s.failure(question, err), nil
	}

	notify(StateSucceeded)
	s.log.Debug("model answered", "subject", in.Subject.Name, "answer_chars", utf8.RuneCountInString(answer))
	return AskResult{Question: question, Answer: answer, Outcome: OutcomeSucceeded}, nil
}

func (s *TutorService) failure(question string, err error) AskResult {
	outcome := ClassifyFailure(err)
	var text string
	switch outcome {
	case OutcomeQuotaExceeded:
		text = s.messages.QuotaExceeded
	case OutcomeTimeout:
		text = s.messages.TimeoutError
	default:
		text = fmt.Sprintf("%s\n\nError details: %s", s.messages.GeneralError, err.Error())
	}
	return AskResult{Question: question, Answer: text, Outcome: outcome}
}

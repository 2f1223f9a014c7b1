package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"gopherai-tutor/internal/model"
)

const (
	DefaultMaxHistory        = 5
	DefaultMaxReferenceChars = 2000

	answerFragmentChars = 200
	ellipsis            = "..."
)

// Composer builds the text sent to the model. It holds no state besides its
// settings, so identical inputs always produce identical output.
type Composer struct {
	template          string
	maxHistory        int
	maxReferenceChars int
}

// NewComposer uses the defaults for a blank template, a negative maxHistory or
// a non-positive maxReferenceChars. maxHistory 0 leaves history out entirely.
func NewComposer(template string, maxHistory, maxReferenceChars int) *Composer {
	if strings.TrimSpace(template) == "" {
		template = DefaultTemplate
	}
	if maxHistory < 0 {
		maxHistory = DefaultMaxHistory
	}
	if maxReferenceChars <= 0 {
		maxReferenceChars = DefaultMaxReferenceChars
	}
	return &Composer{
		template:          template,
		maxHistory:        maxHistory,
		maxReferenceChars: maxReferenceChars,
	}
}

func (c *Composer) MaxHistory() int {
	return c.maxHistory
}

// Instruction is the system part: template, reference material and the recent
// history window. History is taken regardless of subject.
func (c *Composer) Instruction(subject model.Subject, history []model.Exchange, referenceCorpus string) string {
	subjectContext := subject.Context
	if subjectContext == "" {
		subjectContext = subject.Name
	}
	var b strings.Builder
	b.WriteString(strings.NewReplacer(
		"{subject}", subject.Name,
		"{subject_context}", subjectContext,
	).Replace(c.template))

	if strings.TrimSpace(referenceCorpus) != "" {
		b.WriteString("\n\nReference Material:\n")
		b.WriteString("The user has provided the following reference material to help answer questions:\n\n")
		b.WriteString(truncate(referenceCorpus, c.maxReferenceChars))
		b.WriteString("\n\nPlease use this reference material when relevant to answer questions.")
	}

	if c.maxHistory > 0 && len(history) > 0 {
		b.WriteString("\n\nPrevious conversation context:\n")
		if len(history) > c.maxHistory {
			history = history[len(history)-c.maxHistory:]
		}
		for i, e := range history {
			fmt.Fprintf(&b, "Q%d: %s\n", i+1, e.Question)
			// The fragment is always followed by an ellipsis, even for short answers.
			fmt.Fprintf(&b, "A%d: %s%s\n\n", i+1, prefix(e.Answer, answerFragmentChars), ellipsis)
		}
	}
	return b.String()
}

// Compose returns the full prompt for question.
func (c *Composer) Compose(subject model.Subject, history []model.Exchange, referenceCorpus, question string) string {
	return c.Instruction(subject, history, referenceCorpus) +
		"\n\nCurrent question: " + question +
		"\n\nPlease provide a comprehensive answer:"
}

// truncate cuts at exactly n characters, not at a word boundary, and marks the cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return prefix(s, n) + ellipsis
}

func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

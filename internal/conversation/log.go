package conversation

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"gopherai-tutor/internal/model"
)

// Log is the append-only, chronological list of exchanges of one session.
type Log struct {
	exchanges []model.Exchange
}

type Stats struct {
	Count            int     `json:"count"`
	DistinctSubjects int     `json:"distinct_subjects"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

func NewLog() *Log {
	return &Log{}
}

// FromExchanges rebuilds a log from persisted exchanges in their stored order.
func FromExchanges(exchanges []model.Exchange) *Log {
	l := &Log{}
	for _, e := range exchanges {
		l.Append(e.Question, e.Answer, e.Subject, e.Timestamp)
	}
	return l
}

// Append always succeeds. A timestamp earlier than the last one is raised to it
// so arrival order and time order never disagree.
func (l *Log) Append(question, answer, subject string, ts time.Time) model.Exchange {
	if n := len(l.exchanges); n > 0 && ts.Before(l.exchanges[n-1].Timestamp) {
		ts = l.exchanges[n-1].Timestamp
	}
	e := model.Exchange{
		Question:  question,
		Answer:    answer,
		Subject:   subject,
		Timestamp: ts,
	}
	l.exchanges = append(l.exchanges, e)
	return e
}

func (l *Log) Clear() {
	l.exchanges = nil
}

func (l *Log) Len() int {
	return len(l.exchanges)
}

func (l *Log) All() []model.Exchange {
	return append([]model.Exchange(nil), l.exchanges...)
}

// FilterBySubject yields the exchanges tagged with subject, in order. The
// sequence can be ranged over any number of times.
func (l *Log) FilterBySubject(subject string) iter.Seq[model.Exchange] {
	return func(yield func(model.Exchange) bool) {
		for _, e := range l.exchanges {
			if e.Subject != subject {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Windowed returns the last n exchanges in original order.
func (l *Log) Windowed(n int) []model.Exchange {
	if n <= 0 {
		return nil
	}
	if n >= len(l.exchanges) {
		return l.All()
	}
	return append([]model.Exchange(nil), l.exchanges[len(l.exchanges)-n:]...)
}

func (l *Log) Stats() Stats {
	st := Stats{Count: len(l.exchanges), DistinctSubjects: len(l.subjects())}
	if len(l.exchanges) >= 2 {
		first := l.exchanges[0].Timestamp
		last := l.exchanges[len(l.exchanges)-1].Timestamp
		st.DurationSeconds = last.Sub(first).Seconds()
	}
	return st
}

// Summary renders the short session recap shown next to the statistics.
func (l *Log) Summary() string {
	if len(l.exchanges) == 0 {
		return "No conversation yet."
	}
	n := len(l.exchanges)
	subjects := l.subjects()

	var b strings.Builder
	b.WriteString("Session Summary:\n")
	fmt.Fprintf(&b, "• %d question%s asked\n", n, plural(n))
	fmt.Fprintf(&b, "• Subject%s: %s\n", plural(len(subjects)), strings.Join(subjects, ", "))
	fmt.Fprintf(&b, "• Session: %s to %s",
		FormatTimestamp(l.exchanges[0].Timestamp),
		FormatTimestamp(l.exchanges[n-1].Timestamp))
	return b.String()
}

// subjects lists distinct subjects in order of first use.
func (l *Log) subjects() []string {
	seen := make(map[string]struct{}, len(l.exchanges))
	out := make([]string, 0)
	for _, e := range l.exchanges {
		name := e.Subject
		if name == "" {
			name = "Unknown"
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

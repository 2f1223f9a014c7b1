package conversation

import (
	"fmt"
	"time"
	"unicode/utf8"
)

const timestampLayout = "2006-01-02 15:04:05"

func FormatTimestamp(ts time.Time) string {
	return ts.Format(timestampLayout)
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

// TruncateText cuts text to maxChars characters and appends "..." when it had to cut.
func TruncateText(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return string([]rune(text)[:maxChars]) + "..."
}

// EstimateTokens is the rough four-characters-per-token estimate.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

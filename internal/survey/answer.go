// Package survey runs the yes/no questionnaire: it prompts for and validates
// answers, rates a completed answer set and records the rating history in a
// store.Store.
package survey

import "strings"

// Answers maps question ID to a validated, lowercase answer.
type Answers map[string]string

// acceptedAnswers is the closed set of valid normalized answers.
var acceptedAnswers = map[string]bool{
	"yes": true,
	"no":  true,
	"y":   true,
	"n":   true,
}

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsValidAnswer reports whether s is an accepted answer as-is (already
// normalized).
func IsValidAnswer(s string) bool {
	return acceptedAnswers[s]
}

// IsAffirmative reports whether s counts toward the rating.
func IsAffirmative(s string) bool {
	return s == "yes" || s == "y"
}

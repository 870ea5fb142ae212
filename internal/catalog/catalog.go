// Package catalog holds the ordered set of survey questions.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Question is a single yes/no survey question.
type Question struct {
	ID   string `toml:"id" yaml:"id"`
	Text string `toml:"text" yaml:"text"`
}

// Catalog is an ordered, immutable list of questions. The zero value is an
// empty catalog.
type Catalog struct {
	questions []Question
}

// Default returns the built-in five-question catalog.
func Default() Catalog {
	return Catalog{questions: []Question{
		{ID: "q1", Text: "Can you code in Ruby?"},
		{ID: "q2", Text: "Can you code in JavaScript?"},
		{ID: "q3", Text: "Can you code in Swift?"},
		{ID: "q4", Text: "Can you code in Java?"},
		{ID: "q5", Text: "Can you code in C#?"},
	}}
}

// New builds a catalog from qs, preserving order. IDs must be non-empty and
// unique; text must be non-empty. All problems are reported together.
func New(qs ...Question) (Catalog, error) {
	var errs []error
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		id := strings.TrimSpace(q.ID)
		switch {
		case id == "":
			errs = append(errs, fmt.Errorf("question %d: id must not be empty", i+1))
		case seen[id]:
			errs = append(errs, fmt.Errorf("question %d: duplicate id %q", i+1, id))
		}
		seen[id] = true
		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Errorf("question %d: text must not be empty", i+1))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return Catalog{}, fmt.Errorf("catalog: %w", err)
	}

	questions := make([]Question, len(qs))
	for i, q := range qs {
		questions[i] = Question{ID: strings.TrimSpace(q.ID), Text: q.Text}
	}
	return Catalog{questions: questions}, nil
}

// Questions returns a copy of the questions in catalog order.
func (c Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Len returns the number of questions.
func (c Catalog) Len() int {
	return len(c.questions)
}

// IDs returns question identifiers in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.questions))
	for i, q := range c.questions {
		ids[i] = q.ID
	}
	return ids
}

package survey

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LISSConsulting/LISSTech.Survey/internal/catalog"
	"github.com/LISSConsulting/LISSTech.Survey/internal/store"
)

// Store keys.
const (
	KeyAnswers = "answers"
	KeyRatings = "ratings"
	KeyLastRun = "last_run"
)

// LastRun describes the most recent recorded run.
type LastRun struct {
	ID     string    `json:"id" yaml:"id"`
	Rating int       `json:"rating" yaml:"rating"`
	At     time.Time `json:"at" yaml:"at"`
}

// Result is the outcome of one reported run.
type Result struct {
	RunID   string
	Rating  int
	Average int
	History []int
}

// Reporter records a run's rating and prints the report.
type Reporter struct {
	Store   store.Store
	Catalog catalog.Catalog
	Out     io.Writer
	Now     func() time.Time // defaults to time.Now
}

// SaveAnswers overwrites the stored answer set with answers.
func SaveAnswers(ctx context.Context, st store.Store, answers Answers) error {
	return st.Transaction(ctx, func(tx store.Tx) error {
		return tx.Put(KeyAnswers, answers)
	})
}

// Report rates answers, appends the rating to the stored history in a single
// transaction, then prints this run's rating and the average over all runs.
func (r *Reporter) Report(ctx context.Context, answers Answers) (Result, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	res := Result{
		RunID:  uuid.NewString(),
		Rating: CalculateRating(r.Catalog, answers),
	}

	err := r.Store.Transaction(ctx, func(tx store.Tx) error {
		history := []int{}
		if _, err := tx.Fetch(KeyRatings, &history); err != nil {
			return err
		}
		history = append(history, res.Rating)
		if err := tx.Put(KeyRatings, history); err != nil {
			return err
		}
		res.History = history
		return tx.Put(KeyLastRun, LastRun{ID: res.RunID, Rating: res.Rating, At: now().UTC()})
	})
	if err != nil {
		return Result{}, fmt.Errorf("survey: record rating: %w", err)
	}

	avg, err := CalculateAverageRating(ctx, r.Store)
	if err != nil {
		return Result{}, fmt.Errorf("survey: average rating: %w", err)
	}
	res.Average = avg

	fmt.Fprintf(r.Out, "Rating for this run: %d%%\n", res.Rating)
	fmt.Fprintf(r.Out, "Average rating for all runs: %d%%\n", res.Average)
	return res, nil
}

// Dump prints the stored answers and rating history.
func (r *Reporter) Dump(ctx context.Context) error {
	snap, err := LoadSnapshot(ctx, r.Store)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "Stored Answers: %s\n", formatAnswers(r.Catalog, snap.Answers))
	fmt.Fprintf(r.Out, "Stored Ratings: %v\n", snap.Ratings)
	return nil
}

// formatAnswers renders answers as space-separated id=answer pairs in
// catalog order. IDs the catalog does not know follow, sorted.
func formatAnswers(cat catalog.Catalog, answers Answers) string {
	pairs := make([]string, 0, len(answers))
	seen := make(map[string]bool, len(answers))
	for _, id := range cat.IDs() {
		if a, ok := answers[id]; ok {
			pairs = append(pairs, id+"="+a)
			seen[id] = true
		}
	}
	var extra []string
	for id := range answers {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		pairs = append(pairs, id+"="+answers[id])
	}
	return strings.Join(pairs, " ")
}

package survey

import (
	"context"
	"fmt"

	"github.com/LISSConsulting/LISSTech.Survey/internal/store"
)

// Snapshot is a consistent read of everything the survey persists.
type Snapshot struct {
	Answers Answers  `yaml:"answers"`
	Ratings []int    `yaml:"ratings"`
	Average int      `yaml:"average"`
	LastRun *LastRun `yaml:"last_run,omitempty"`
}

// LoadSnapshot reads answers, ratings and the last run record in one
// transaction. Missing keys yield empty values.
func LoadSnapshot(ctx context.Context, st store.Store) (Snapshot, error) {
	snap := Snapshot{Answers: Answers{}, Ratings: []int{}}
	err := st.Transaction(ctx, func(tx store.Tx) error {
		if _, err := tx.Fetch(KeyAnswers, &snap.Answers); err != nil {
			return err
		}
		if _, err := tx.Fetch(KeyRatings, &snap.Ratings); err != nil {
			return err
		}
		var last LastRun
		found, err := tx.Fetch(KeyLastRun, &last)
		if err != nil {
			return err
		}
		if found {
			snap.LastRun = &last
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("survey: load snapshot: %w", err)
	}
	snap.Average = Average(snap.Ratings)
	return snap, nil
}

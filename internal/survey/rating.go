package survey

import (
	"context"

	"github.com/LISSConsulting/LISSTech.Survey/internal/catalog"
	"github.com/LISSConsulting/LISSTech.Survey/internal/store"
)

// CalculateRating returns the percentage of affirmative answers, truncated to
// an int. The denominator is always the catalog size, not len(answers), so a
// partial answer set rates lower than its own yes-ratio. An empty catalog
// rates 0.
func CalculateRating(cat catalog.Catalog, answers Answers) int {
	if cat.Len() == 0 {
		return 0
	}
	affirmative := 0
	for _, a := range answers {
		if IsAffirmative(a) {
			affirmative++
		}
	}
	return affirmative * 100 / cat.Len()
}

// Average returns the truncated mean of history, or 0 when it is empty.
func Average(history []int) int {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, r := range history {
		sum += r
	}
	return sum / len(history)
}

// CalculateAverageRating reads the rating history from st and returns its
// truncated mean. A store with no history averages 0.
func CalculateAverageRating(ctx context.Context, st store.Store) (int, error) {
	var history []int
	err := st.Transaction(ctx, func(tx store.Tx) error {
		_, err := tx.Fetch(KeyRatings, &history)
		return err
	})
	if err != nil {
		return 0, err
	}
	return Average(history), nil
}

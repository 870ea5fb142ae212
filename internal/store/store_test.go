package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/LISSConsulting/LISSTech.Survey/internal/store"
)

// Compile-time checks: both backends implement Store.
var (
	_ store.Store = (*store.SQLite)(nil)
	_ store.Store = (*store.Memory)(nil)
)

// backends returns a constructor per Store implementation so the same
// behavioural tests run against each.
func backends(t *testing.T) map[string]func(t *testing.T) store.Store {
	t.Helper()
	return map[string]func(t *testing.T) store.Store{
		"memory": func(t *testing.T) store.Store {
			return store.NewMemory()
		},
		"sqlite": func(t *testing.T) store.Store {
			s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestFetch_MissingKeyKeepsDefault(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ratings := []int{}
			var found bool
			err := s.Transaction(context.Background(), func(tx store.Tx) error {
				var err error
				found, err = tx.Fetch("ratings", &ratings)
				return err
			})
			if err != nil {
				t.Fatal(err)
			}
			if found {
				t.Error("expected found = false for missing key")
			}
			if ratings == nil || len(ratings) != 0 {
				t.Errorf("default changed: %v", ratings)
			}
		})
	}
}

func TestPutFetchRoundTrip(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			answers := map[string]string{"q1": "yes", "q2": "n"}
			err := s.Transaction(ctx, func(tx store.Tx) error {
				if err := tx.Put("answers", answers); err != nil {
					return err
				}
				return tx.Put("ratings", []int{50, 70})
			})
			if err != nil {
				t.Fatal(err)
			}

			var gotAnswers map[string]string
			var gotRatings []int
			err = s.Transaction(ctx, func(tx store.Tx) error {
				if _, err := tx.Fetch("answers", &gotAnswers); err != nil {
					return err
				}
				_, err := tx.Fetch("ratings", &gotRatings)
				return err
			})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(gotAnswers, answers) {
				t.Errorf("answers = %v, want %v", gotAnswers, answers)
			}
			if !reflect.DeepEqual(gotRatings, []int{50, 70}) {
				t.Errorf("ratings = %v, want [50 70]", gotRatings)
			}
		})
	}
}

func TestTransaction_ErrorRollsBack(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			if err := s.Transaction(ctx, func(tx store.Tx) error {
				return tx.Put("ratings", []int{10})
			}); err != nil {
				t.Fatal(err)
			}

			boom := errors.New("boom")
			err := s.Transaction(ctx, func(tx store.Tx) error {
				if err := tx.Put("ratings", []int{10, 20}); err != nil {
					return err
				}
				if err := tx.Put("answers", map[string]string{"q1": "y"}); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}

			var ratings []int
			var roots []string
			err = s.Transaction(ctx, func(tx store.Tx) error {
				if _, err := tx.Fetch("ratings", &ratings); err != nil {
					return err
				}
				var err error
				roots, err = tx.Roots()
				return err
			})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ratings, []int{10}) {
				t.Errorf("ratings after rollback = %v, want [10]", ratings)
			}
			if !reflect.DeepEqual(roots, []string{"ratings"}) {
				t.Errorf("roots after rollback = %v, want [ratings]", roots)
			}
		})
	}
}

func TestDeleteAndRoots(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()

			var roots []string
			err := s.Transaction(ctx, func(tx store.Tx) error {
				for _, k := range []string{"ratings", "answers", "last_run"} {
					if err := tx.Put(k, k); err != nil {
						return err
					}
				}
				if err := tx.Delete("last_run"); err != nil {
					return err
				}
				if err := tx.Delete("never-existed"); err != nil {
					return err
				}
				var err error
				roots, err = tx.Roots()
				return err
			})
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(roots, []string{"answers", "ratings"}) {
				t.Errorf("roots = %v, want [answers ratings]", roots)
			}
		})
	}
}

func TestTransaction_AfterClose(t *testing.T) {
	for name, newStore := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}
			err := s.Transaction(context.Background(), func(tx store.Tx) error { return nil })
			if !errors.Is(err, store.ErrClosed) {
				t.Errorf("expected ErrClosed, got %v", err)
			}
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "survey.db")

	s, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Transaction(ctx, func(tx store.Tx) error {
		return tx.Put("ratings", []int{60})
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := store.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if reopened.Path() != path {
		t.Errorf("Path() = %q, want %q", reopened.Path(), path)
	}

	var ratings []int
	if err := reopened.Transaction(ctx, func(tx store.Tx) error {
		_, err := tx.Fetch("ratings", &ratings)
		return err
	}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ratings, []int{60}) {
		t.Errorf("ratings = %v, want [60]", ratings)
	}
}

func TestOpen_SpecialCharactersInPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, name := range []string{"run#1.db", "a?b.db", "50%.db", "with space.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			s, err := store.Open(ctx, path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if err := s.Transaction(ctx, func(tx store.Tx) error {
				return tx.Put("ratings", []int{40})
			}); err != nil {
				t.Fatal(err)
			}
			if err := s.Close(); err != nil {
				t.Fatal(err)
			}

			if _, err := os.Stat(path); err != nil {
				t.Fatalf("database not written to %q: %v", path, err)
			}

			reopened, err := store.Open(ctx, path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer func() { _ = reopened.Close() }()
			var ratings []int
			if err := reopened.Transaction(ctx, func(tx store.Tx) error {
				_, err := tx.Fetch("ratings", &ratings)
				return err
			}); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ratings, []int{40}) {
				t.Errorf("ratings = %v, want [40]", ratings)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	want := []string{"50%.db", "a?b.db", "run#1.db", "with space.db"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files on disk = %q, want %q", got, want)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := store.Open(context.Background(), ""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestFetch_DecodeError(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	if err := s.Transaction(ctx, func(tx store.Tx) error {
		return tx.Put("ratings", "not a list")
	}); err != nil {
		t.Fatal(err)
	}

	err := s.Transaction(ctx, func(tx store.Tx) error {
		var ratings []int
		_, err := tx.Fetch("ratings", &ratings)
		return err
	})
	if err == nil {
		t.Error("expected decode error")
	}
}

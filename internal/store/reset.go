package store

import (
	"context"
	"fmt"
)

// Reset wipes every top-level key from each store in paths. Each store is
// cleared in a single transaction, so a store is either fully cleared or
// left as it was. Stops at the first failing path.
func Reset(ctx context.Context, open Opener, paths []string) error {
	for _, path := range paths {
		if err := resetOne(ctx, open, path); err != nil {
			return err
		}
	}
	return nil
}

func resetOne(ctx context.Context, open Opener, path string) (err error) {
	s, err := open(ctx, path)
	if err != nil {
		return fmt.Errorf("store: reset %q: %w", path, err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("store: reset %q: close: %w", path, closeErr)
		}
	}()

	err = s.Transaction(ctx, func(tx Tx) error {
		keys, err := tx.Roots()
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: reset %q: %w", path, err)
	}
	return nil
}

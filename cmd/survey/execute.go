package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/LISSConsulting/LISSTech.Survey/internal/catalog"
	"github.com/LISSConsulting/LISSTech.Survey/internal/config"
	"github.com/LISSConsulting/LISSTech.Survey/internal/store"
	"github.com/LISSConsulting/LISSTech.Survey/internal/survey"
)

// runSurvey loads config, opens the environment's store and runs one survey.
func runSurvey(ctx context.Context, in io.Reader, out io.Writer) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = conductSurvey(ctx, st, cat, in, out, cfg.Survey.Debug)
	return err
}

// conductSurvey prompts for answers, stores them, records and prints the
// rating, and optionally dumps what was stored.
func conductSurvey(ctx context.Context, st store.Store, cat catalog.Catalog, in io.Reader, out io.Writer, debug bool) (survey.Result, error) {
	answers, err := survey.NewPrompter(in, out).Prompt(ctx, cat)
	if err != nil {
		return survey.Result{}, err
	}
	if err := survey.SaveAnswers(ctx, st, answers); err != nil {
		return survey.Result{}, fmt.Errorf("save answers: %w", err)
	}

	reporter := &survey.Reporter{Store: st, Catalog: cat, Out: out}
	res, err := reporter.Report(ctx, answers)
	if err != nil {
		return survey.Result{}, err
	}

	if debug {
		if err := reporter.Dump(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}

// runReset wipes every configured store.
func runReset(ctx context.Context, out io.Writer) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	for _, path := range cfg.ResetPaths() {
		if err := store.Reset(ctx, store.OpenSQLite, []string{path}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared %s\n", path)
	}
	return nil
}

// showHistory prints the stored answers, rating history and average for the
// environment's store.
func showHistory(ctx context.Context, out io.Writer, asYAML bool) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := survey.LoadSnapshot(ctx, st)
	if err != nil {
		return err
	}

	if asYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode history: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprint(out, formatHistory(cfg.StorePath(), cat, snap))
	return nil
}

// formatHistory renders a snapshot for the terminal. Answers are listed in
// catalog order; answers to questions no longer in the catalog follow,
// sorted by ID.
func formatHistory(path string, cat catalog.Catalog, snap survey.Snapshot) string {
	var b []byte
	line := func(label, format string, args ...any) {
		b = fmt.Appendf(b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", label)), fmt.Sprintf(format, args...))
	}

	b = fmt.Appendf(b, "%s\n", heading("Survey History"))
	line("Store:", "%s", path)

	if len(snap.Ratings) == 0 {
		b = append(b, "  No runs recorded yet. Run 'survey' first.\n"...)
		return string(b)
	}

	line("Runs:", "%d", len(snap.Ratings))
	line("Ratings:", "%v", snap.Ratings)
	line("Average:", "%d%%", snap.Average)
	if snap.LastRun != nil {
		line("Last run:", "%d%% at %s", snap.LastRun.Rating, snap.LastRun.At.Format("2006-01-02 15:04:05 MST"))
	}

	if len(snap.Answers) > 0 {
		b = append(b, "\n  Last answers\n"...)
		listed := make(map[string]bool, len(snap.Answers))
		for _, q := range cat.Questions() {
			if a, ok := snap.Answers[q.ID]; ok {
				line(q.ID+":", "%-4s %s", a, q.Text)
				listed[q.ID] = true
			}
		}
		var extra []string
		for id := range snap.Answers {
			if !listed[id] {
				extra = append(extra, id)
			}
		}
		sort.Strings(extra)
		for _, id := range extra {
			line(id+":", "%s", snap.Answers[id])
		}
	}
	return string(b)
}

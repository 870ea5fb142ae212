package survey

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/LISSConsulting/LISSTech.Survey/internal/catalog"
)

// ErrInputClosed is returned when the input source runs out (or fails)
// before every question has a valid answer.
var ErrInputClosed = errors.New("survey: input closed")

const invalidAnswerPrompt = "Invalid answer. Please enter Yes or No: "

// Prompter asks questions on out and reads one answer per line from in.
// Lines are read on a background goroutine so a blocked read never outlives
// a cancelled context.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan lineResult
	start sync.Once
}

type lineResult struct {
	line string
	err  error
}

// NewPrompter returns a Prompter reading lines from in and writing prompts
// to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, lines: make(chan lineResult, 1)}
}

// Prompt asks every question in cat, in order, and returns the validated
// answers keyed by question ID.
func (p *Prompter) Prompt(ctx context.Context, cat catalog.Catalog) (Answers, error) {
	answers := make(Answers, cat.Len())
	for _, q := range cat.Questions() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(p.out, "%s (Yes/No): ", q.Text)

		line, err := p.readLine(ctx)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		answer, err := p.ValidateAnswer(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", q.ID, err)
		}
		answers[q.ID] = answer
	}
	return answers, nil
}

// ValidateAnswer normalizes raw and, until it is an accepted answer, keeps
// re-prompting and reading replacement lines. There is no attempt limit; the
// loop only ends early if the input closes or ctx is cancelled.
func (p *Prompter) ValidateAnswer(ctx context.Context, raw string) (string, error) {
	answer := Normalize(raw)
	for !IsValidAnswer(answer) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprint(p.out, invalidAnswerPrompt)

		line, err := p.readLine(ctx)
		if err != nil {
			return "", err
		}
		answer = Normalize(line)
	}
	return answer, nil
}

// readLine returns the next line, terminator included. A final line with
// no trailing newline is returned as-is; after that, ErrInputClosed. If ctx
// is done first, its error is returned and the pending line stays queued.
func (p *Prompter) readLine(ctx context.Context) (string, error) {
	p.start.Do(func() { go p.readLines() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if r.err == nil {
			return r.line, nil
		}
		if errors.Is(r.err, io.EOF) && r.line != "" {
			return r.line, nil
		}
		if errors.Is(r.err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("%w: %w", ErrInputClosed, r.err)
	}
}

// readLines feeds p.lines until the reader fails, then closes it.
func (p *Prompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Package speech is the dictation collaborator feeding the remarks
// field. The real recognizer lives outside this program; Recognizer is
// the seam it plugs into.
package speech

import (
	"bufio"
	"context"
	"io"
)

// Recognizer streams recognized text fragments until the stream ends or
// ctx is cancelled. Errors arrive on the second channel; both channels
// are closed when listening stops.
type Recognizer interface {
	Listen(ctx context.Context) (<-chan string, <-chan error)
}

// LineReader recognizes "speech" by reading lines from r, one fragment
// per line. It stands in for a microphone pipeline in scripted runs and
// lets the CLI dictate remarks from stdin.
type LineReader struct {
	r io.Reader
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: r}
}

func (l *LineReader) Listen(ctx context.Context) (<-chan string, <-chan error) {
	texts := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(texts)
		defer close(errs)

		scanner := bufio.NewScanner(l.r)
		for scanner.Scan() {
			select {
			case texts <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case errs <- err:
			case <-ctx.Done():
			}
		}
	}()

	return texts, errs
}

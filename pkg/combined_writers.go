package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers. A failing writer does not
// stop the others; its error is combined into the returned one.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		err     error
		written bool
	)
	for _, w := range cw.Writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		written = true
	}

	if !written {
		return 0, err
	}
	return len(p), err
}

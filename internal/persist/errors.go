package persist

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDocument is fatal: the bytes are not a graph document.
	ErrInvalidDocument = errors.New("invalid graph document")

	// ErrUnsupportedVersion is fatal: the document was written by another format version.
	ErrUnsupportedVersion = errors.New("unsupported document version")

	// ErrUnknownTypeTag: a port or property tag could not be resolved; the
	// field was loaded with an unknown placeholder.
	ErrUnknownTypeTag = errors.New("unknown type tag")

	// ErrDanglingReference: a connection names a port id that was not
	// loaded; the connection was dropped.
	ErrDanglingReference = errors.New("dangling port reference")

	// ErrDuplicateReference: two ports share an id; the later one cannot be
	// referenced by connections.
	ErrDuplicateReference = errors.New("duplicate port id")

	// ErrInvalidConnection: a connection resolved but the model refused it
	// (wrong direction, same node, or an input already taken); it was dropped.
	ErrInvalidConnection = errors.New("invalid connection")

	// ErrMalformedEntity: a node, port or property failed validation and was
	// skipped or reset.
	ErrMalformedEntity = errors.New("malformed entity")
)

// Report collects the recoverable problems found while loading. A load
// with problems still returns a usable, consistent graph.
type Report struct {
	Problems []error
}

func (r *Report) add(err error) {
	r.Problems = append(r.Problems, err)
}

func (r *Report) addf(kind error, format string, args ...any) {
	r.add(fmt.Errorf("%w: "+format, append([]any{kind}, args...)...))
}

// OK reports whether the load was clean.
func (r *Report) OK() bool {
	return r == nil || len(r.Problems) == 0
}

// Err joins every problem, or returns nil for a clean load.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	return errors.Join(r.Problems...)
}

// Count returns how many problems match kind.
func (r *Report) Count(kind error) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Problems {
		if errors.Is(p, kind) {
			n++
		}
	}
	return n
}

func (r *Report) String() string {
	if r.OK() {
		return "no problems"
	}
	lines := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		lines[i] = p.Error()
	}
	return strings.Join(lines, "\n")
}

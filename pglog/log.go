// Package pglog wraps sirupsen/logrus with the gated-debug-tracing
// pattern grounded on i5heu-ouroboros-db/internal/keyValStore, which
// takes a *logrus.Logger through its StoreConfig rather than reaching
// for a package-global logger. dna_aligner/aligner/align.go itself only
// used unconditional fmt.Printf progress lines; this
// package is the ambient-stack replacement for that, in the style the
// rest of the pack's dependency-rich repo uses.
package pglog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger configured for CLI use: text formatter,
// full timestamps, level read from verbose.
func New(verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(os.Stderr)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for callers (tests,
// library use of block/pgalign without a CLI) that want the wiring
// without the output.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

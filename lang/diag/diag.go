// Package diag implements the error sink described in spec §7: user
// diagnostics accumulate into an ErrorList (non-fatal) or unwind the
// current compilation via a fatal error (the Go analogue of the spec's
// long-jump-equivalent exit, since Go has no setjmp/longjmp).
//
// The shape mirrors the standard library's go/scanner.ErrorList (sort by
// position, single Error() string; duplicates are kept), adapted to key on a
// SourceId instead of a token.Position since the two are not
// interchangeable here.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/ilex/lang/ids"
)

// Error is a single non-fatal diagnostic, tied to a source location.
type Error struct {
	Source  ids.SourceId
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %d: %s", e.Source, e.Message)
}

// ErrorList accumulates diagnostics so several related problems can be
// reported from a single compilation run instead of aborting at the
// first one.
type ErrorList struct {
	errs []*Error
}

// Add appends a formatted diagnostic tied to src.
func (l *ErrorList) Add(src ids.SourceId, format string, args ...interface{}) {
	l.errs = append(l.errs, &Error{Source: src, Message: fmt.Sprintf(format, args...)})
}

// Len reports the number of accumulated diagnostics.
func (l *ErrorList) Len() int { return len(l.errs) }

// Sort orders the diagnostics by SourceId, stable on insertion order for
// ties, so that repeated runs produce repeatable output.
func (l *ErrorList) Sort() {
	sort.SliceStable(l.errs, func(i, j int) bool { return l.errs[i].Source < l.errs[j].Source })
}

// Err returns nil if the list is empty, the single error if there is
// exactly one, or the list itself (implementing error) otherwise.
func (l *ErrorList) Err() error {
	switch len(l.errs) {
	case 0:
		return nil
	case 1:
		return l.errs[0]
	}
	return l
}

func (l *ErrorList) Error() string {
	switch len(l.errs) {
	case 0:
		return "no errors"
	case 1:
		return l.errs[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (and %d more errors)", l.errs[0], len(l.errs)-1)
	return sb.String()
}

// All returns the accumulated diagnostics in their current order.
func (l *ErrorList) All() []*Error { return l.errs }

// FatalError is panicked by Sink.Fatalf to unwind the current compilation
// without running further cleanup, matching spec §5's description of
// pools tolerating teardown without cleanup: Go panics, unlike C++
// exceptions, do run deferred statements, but callers of Fatalf are never
// expected to recover anywhere except at the outermost driver boundary.
type FatalError struct {
	Source  ids.SourceId
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: source %d: %s", e.Source, e.Message)
}

// Sink is the error-reporting interface every core reports through. It is
// implemented by *ErrorList for the non-fatal path plus a fatal exit.
type Sink interface {
	// Errorf reports a non-fatal diagnostic; compilation may continue.
	Errorf(src ids.SourceId, format string, args ...interface{})
	// Fatalf reports an unrecoverable diagnostic and never returns: it
	// panics with a *FatalError.
	Fatalf(src ids.SourceId, format string, args ...interface{})
}

// listSink adapts an *ErrorList to the Sink interface.
type listSink struct {
	list *ErrorList
}

// NewSink returns a Sink that accumulates non-fatal diagnostics into list
// and panics with *FatalError for fatal ones.
func NewSink(list *ErrorList) Sink { return &listSink{list: list} }

func (s *listSink) Errorf(src ids.SourceId, format string, args ...interface{}) {
	s.list.Add(src, format, args...)
}

func (s *listSink) Fatalf(src ids.SourceId, format string, args ...interface{}) {
	panic(&FatalError{Source: src, Message: fmt.Sprintf(format, args...)})
}

// Recover should be deferred exactly once, at the top of a compilation
// driver. It turns a panicked *FatalError into a returned error and lets
// any other panic (a genuine bug) propagate.
func Recover(err *error) {
	if r := recover(); r != nil {
		if fe, ok := r.(*FatalError); ok {
			*err = fe
			return
		}
		panic(r)
	}
}

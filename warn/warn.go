// Package warn carries advisory conditions raised by spectrum operations.
//
// A Warning never aborts the operation that raised it. Operations accept a
// Handler which receives each warning as it occurs; the default handler logs
// it through zap. Callers that want to inspect warnings use a Collector, and
// callers that want to silence a particular kind wrap their handler with
// Filter.
package warn

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Kind identifies the category of an advisory condition.
type Kind int

const (
	// AmbiguousLivetime: the result of an arithmetic operation has no
	// well-defined livetime and carries none.
	AmbiguousLivetime Kind = iota + 1
	// LossyRounding: non-integer counts were rounded before event sampling.
	LossyRounding
	// ZeroPad: target bins outside the source domain were filled with zeros.
	ZeroPad
	// ParseQuirk: a file parser recovered from a format irregularity.
	ParseQuirk
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case AmbiguousLivetime:
		return "ambiguous-livetime"
	case LossyRounding:
		return "lossy-rounding"
	case ZeroPad:
		return "zero-pad"
	case ParseQuirk:
		return "parse-quirk"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Warning is a non-fatal condition. It implements error so that warnings can
// be aggregated with multierr, but it is never returned as an operation's
// error value.
type Warning struct {
	Kind    Kind
	Message string
}

// New returns a Warning of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Warning {
	return &Warning{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (w *Warning) Error() string {
	return "warning (" + w.Kind.String() + "): " + w.Message
}

// Handler receives warnings.
type Handler func(*Warning)

// Emit calls h with w unless h is nil.
func (h Handler) Emit(w *Warning) {
	if h != nil && w != nil {
		h(w)
	}
}

// Discard is a Handler that drops every warning.
func Discard(*Warning) {}

// Log returns a Handler that writes every warning to logger at Warn level.
func Log(logger *zap.Logger) Handler {
	if logger == nil {
		return Discard
	}
	return func(w *Warning) {
		logger.Warn(w.Message, zap.Stringer("kind", w.Kind))
	}
}

// Filter returns a Handler that forwards to h every warning whose kind is not
// listed in suppressed.
func Filter(h Handler, suppressed ...Kind) Handler {
	if len(suppressed) == 0 {
		return h
	}
	return func(w *Warning) {
		if slices.Contains(suppressed, w.Kind) {
			return
		}
		h.Emit(w)
	}
}

// Tee returns a Handler that forwards every warning to all handlers.
func Tee(handlers ...Handler) Handler {
	return func(w *Warning) {
		for _, h := range handlers {
			h.Emit(w)
		}
	}
}

// Collector accumulates warnings. It is safe for concurrent use.
type Collector struct {
	mu  sync.Mutex
	err error
}

// Handle records w. It has the Handler signature.
func (c *Collector) Handle(w *Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = multierr.Append(c.err, w)
}

// Handler returns c.Handle as a Handler.
func (c *Collector) Handler() Handler {
	return c.Handle
}

// Err returns all collected warnings combined into one error, or nil.
func (c *Collector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Warnings returns the collected warnings in arrival order.
func (c *Collector) Warnings() []*Warning {
	return List(c.Err())
}

// Has reports whether a warning of kind k was collected.
func (c *Collector) Has(k Kind) bool {
	for _, w := range c.Warnings() {
		if w.Kind == k {
			return true
		}
	}
	return false
}

// List extracts the warnings contained in err, which is typically built with
// multierr. Errors that are not warnings are skipped.
func List(err error) []*Warning {
	var out []*Warning
	for _, e := range multierr.Errors(err) {
		var w *Warning
		if errors.As(e, &w) {
			out = append(out, w)
		}
	}
	return out
}

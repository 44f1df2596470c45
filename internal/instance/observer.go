package instance

import "github.com/vk/paramgrid/internal/param"

// Change operations.
const (
	OpSet       = "set"
	OpSetAt     = "set_at"
	OpDeleteKey = "delete_key"
	OpDeleteAll = "delete_all"
)

// Change describes one mutation of a parameter's value or keys.
type Change struct {
	Name string
	Type param.Type
	Op   string
	// Time is the affected time; for OpSet and OpDeleteAll it is the host's
	// current time.
	Time   float64
	Policy param.CacheInvalidation
}

// Observer is told about changes after they have been applied.
type Observer interface {
	ParamChanged(c Change)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(c Change)

func (f ObserverFunc) ParamChanged(c Change) { f(c) }

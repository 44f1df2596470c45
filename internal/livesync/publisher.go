package livesync

import (
	"log/slog"

	"github.com/vk/paramgrid/internal/instance"
)

// EventParamChanged is the event name changes are emitted under.
const EventParamChanged = "param_changed"

// Emitter sends one event with a JSON-encodable payload.
type Emitter interface {
	Emit(event string, payload any) error
}

// EmitterFunc adapts a plain function to Emitter.
type EmitterFunc func(event string, payload any) error

func (f EmitterFunc) Emit(event string, payload any) error { return f(event, payload) }

// Message is the payload of EventParamChanged.
type Message struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Op     string  `json:"op"`
	Time   float64 `json:"time"`
	Policy string  `json:"policy"`
}

// Publisher forwards instance changes to an Emitter.
type Publisher struct {
	emitter Emitter
	logger  *slog.Logger
}

var _ instance.Observer = (*Publisher)(nil)

func NewPublisher(e Emitter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{emitter: e, logger: logger.With("component", "livesync")}
}

// ParamChanged emits c. Emit failures are logged, never returned to the
// instance that made the change.
func (p *Publisher) ParamChanged(c instance.Change) {
	msg := Message{
		Name:   c.Name,
		Type:   c.Type.String(),
		Op:     c.Op,
		Time:   c.Time,
		Policy: c.Policy.String(),
	}
	if err := p.emitter.Emit(EventParamChanged, msg); err != nil {
		p.logger.Warn("Failed to publish change.", "name", c.Name, "op", c.Op, "error", err)
		return
	}
	p.logger.Debug("Published change.", "name", c.Name, "op", c.Op, "time", c.Time)
}

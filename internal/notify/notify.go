// Package notify carries change events from the write paths to connected
// clients. Delivery is fire-and-forget: a write has already succeeded by the
// time its event is published, so nothing here may fail the caller.
package notify

import (
	"encoding/json"
	"log/slog"
)

type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Entity kinds as they appear on the wire.
const (
	KindUsers         = "users"
	KindDepartments   = "departments"
	KindFirms         = "firms"
	KindModifications = "modifications"
	KindWorkTypes     = "worktypes"
	KindTypesOfWork   = "typesofwork"
	KindWorkflows     = "workflows"
	KindInvites       = "invites"
	KindFlashes       = "flashes"
)

// Event is the wire contract every downstream client depends on: exactly
// these four fields. For the addressed kinds (invites, flashes) the ID field
// carries the recipient's user id, not the mutated entity's id.
type Event struct {
	EntityKind string    `json:"entityKind"`
	Operation  Operation `json:"operation"`
	ID         string    `json:"id"`
	Version    int64     `json:"version"`
}

// Transport is whatever can push payloads to connected sessions.
type Transport interface {
	Broadcast(payload []byte) error
	SendToIdentity(identity string, payload []byte) error
	ListConnectedIdentities() []string
}

type Notifier struct {
	transport Transport
	logger    *slog.Logger
	addressed map[string]bool
}

func NewNotifier(transport Transport, logger *slog.Logger) *Notifier {
	return &Notifier{
		transport: transport,
		logger:    logger,
		addressed: map[string]bool{
			KindInvites: true,
			KindFlashes: true,
		},
	}
}

// Publish routes an event: addressed kinds go to the one session whose
// identity equals the event id, everything else is broadcast. Transport
// errors and empty rosters mean "nobody to notify" and are only logged.
func (n *Notifier) Publish(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("notify: failed to encode event", "entityKind", event.EntityKind, "error", err)
		return
	}

	if n.addressed[event.EntityKind] {
		if err := n.transport.SendToIdentity(event.ID, payload); err != nil {
			n.logger.Warn("notify: addressed delivery skipped",
				"entityKind", event.EntityKind, "recipient", event.ID, "error", err)
		}
		return
	}

	if err := n.transport.Broadcast(payload); err != nil {
		n.logger.Warn("notify: broadcast skipped", "entityKind", event.EntityKind, "error", err)
	}
}

package signaling

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Imacancer/AppDev-ChatApp/internal/infrastructure/realtime"
	"github.com/Imacancer/AppDev-ChatApp/internal/metrics"
)

// ErrTargetUnreachable is returned when the addressed peer has no active
// connection. Delivery is fire-and-forget; nothing is queued for later.
var ErrTargetUnreachable = errors.New("signaling: target has no active connection")

// Event kinds the signaler relays. All three share the same routing and
// differ only in the event name and payload field emitted to the target.
const (
	KindOffer        = "offer"
	KindAnswer       = "answer"
	KindICECandidate = "ice_candidate"
)

// payloadField maps an event kind to the field name carrying the
// negotiation blob on the wire.
var payloadField = map[string]string{
	KindOffer:        "offer",
	KindAnswer:       "answer",
	KindICECandidate: "candidate",
}

// Signaler routes WebRTC negotiation payloads between peers. It keeps no
// state of its own; targets resolve through the registry's connection and
// user indexes. Payloads are opaque and never inspected.
type Signaler struct {
	registry *realtime.Registry
}

func NewSignaler(registry *realtime.Registry) *Signaler {
	return &Signaler{registry: registry}
}

// Relay forwards payload to every live connection of targetID. targetID
// may be a connection handle (the usual case: peers address each other by
// the handle learned from an earlier event) or a user id. senderID is the
// relaying connection's handle, echoed so the target knows whom to answer.
func (s *Signaler) Relay(kind, targetID string, payload json.RawMessage, senderID string) error {
	field, ok := payloadField[kind]
	if !ok {
		return fmt.Errorf("signaling: unsupported event kind %q", kind)
	}
	if targetID == "" || len(payload) == 0 {
		return fmt.Errorf("signaling: target id and payload are required")
	}

	conns := s.registry.FindTarget(targetID)
	if len(conns) == 0 {
		return ErrTargetUnreachable
	}

	out, err := json.Marshal(map[string]any{
		"event": kind,
		"data": map[string]json.RawMessage{
			"sender_id": json.RawMessage(fmt.Sprintf("%q", senderID)),
			field:       payload,
		},
	})
	if err != nil {
		return err
	}

	for _, conn := range conns {
		_ = conn.Send(out)
	}
	metrics.SignalsRelayed.WithLabelValues(kind).Inc()
	return nil
}

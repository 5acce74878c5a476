package gateway

import "encoding/json"

// inboundFrame is the envelope every client event arrives in.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// outboundFrame is the envelope for events pushed to clients.
type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func successAck() []byte {
	return []byte(`{"status":"success"}`)
}

func errorAck(msg string) []byte {
	b, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return b
}

func outbound(event string, data any) []byte {
	b, err := json.Marshal(outboundFrame{Event: event, Data: data})
	if err != nil {
		return nil
	}
	return b
}

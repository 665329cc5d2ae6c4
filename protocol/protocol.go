package protocol

import (
	"encoding/json"
	"fmt"
)

// Message type tags. Inbound tags arrive from clients, outbound tags are
// produced by the server. Every frame is a JSON object with a "type" field.
const (
	// inbound
	MsgJoin    = "join"
	MsgInput   = "input"
	MsgRespawn = "respawn"

	// outbound
	MsgJoined     = "joined"
	MsgState      = "state"
	MsgKill       = "kill"
	MsgRoundStart = "roundStart"
	MsgRoundEnd   = "roundEnd"
)

// Join is the first message a client sends on a fresh connection.
type Join struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Wallet string `json:"wallet,omitempty"`
}

// Input carries steering updates. Both fields are independently optional:
// a nil field means "leave the current value alone".
type Input struct {
	Type  string   `json:"type"`
	Angle *float64 `json:"angle,omitempty"`
	Boost *bool    `json:"boost,omitempty"`
}

// Respawn asks the server to replace the caller's dead snake.
type Respawn struct {
	Type string `json:"type"`
}

// PeekType extracts the type tag without decoding the full payload.
func PeekType(data []byte) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", err
	}
	if probe.Type == "" {
		return "", fmt.Errorf("message missing type tag")
	}
	return probe.Type, nil
}

// DecodePayload unmarshals a frame into the concrete message for its tag.
func DecodePayload[T any](data []byte) (T, error) {
	var out T
	if len(data) == 0 {
		return out, fmt.Errorf("empty payload")
	}
	err := json.Unmarshal(data, &out)
	return out, err
}

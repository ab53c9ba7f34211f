package speechcortex

import "encoding/json"

// decodeEvent maps one inbound text frame onto its typed event. It is
// total: a missing or unknown type discriminator, or a payload that does
// not parse, yields an UnhandledEvent carrying the raw frame. Binary
// frames are outbound-only and never reach this path.
func decodeEvent(data []byte) Event {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return UnhandledEvent{Raw: data}
	}

	switch probe.Type {
	case "Results":
		var ev Result
		if err := json.Unmarshal(data, &ev); err != nil {
			return UnhandledEvent{Raw: data}
		}
		return ev
	case "Metadata":
		var ev Metadata
		if err := json.Unmarshal(data, &ev); err != nil {
			return UnhandledEvent{Raw: data}
		}
		return ev
	case "SpeechStarted":
		var ev SpeechStartedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return UnhandledEvent{Raw: data}
		}
		return ev
	case "UtteranceEnd":
		var ev UtteranceEndEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return UnhandledEvent{Raw: data}
		}
		return ev
	case "Error":
		var ev ErrorEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return UnhandledEvent{Raw: data}
		}
		return ev
	default:
		return UnhandledEvent{Raw: data}
	}
}

type keepAliveMessage struct {
	Type string `json:"type"`
}

// encodeKeepAlive builds the keep-alive control frame.
func encodeKeepAlive() []byte {
	data, _ := json.Marshal(keepAliveMessage{Type: "KeepAlive"})
	return data
}

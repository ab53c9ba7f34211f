package speechcortex

// EventKind identifies the type of an inbound session event.
type EventKind string

const (
	EventOpen          EventKind = "Open"
	EventTranscript    EventKind = "Transcript"
	EventMetadata      EventKind = "Metadata"
	EventSpeechStarted EventKind = "SpeechStarted"
	EventUtteranceEnd  EventKind = "UtteranceEnd"
	EventError         EventKind = "Error"
	EventClose         EventKind = "Close"
	EventUnhandled     EventKind = "Unhandled"
)

// Event is one of the closed set of session event variants. Events are
// immutable values; they carry no reference to the connection.
type Event interface {
	Kind() EventKind
}

// OpenEvent is emitted once when the WebSocket connection is established.
type OpenEvent struct{}

func (OpenEvent) Kind() EventKind { return EventOpen }

// Word is a single recognized word with time offsets in seconds.
type Word struct {
	Word           string  `json:"word"`
	Start          float64 `json:"start"`
	End            float64 `json:"end"`
	Confidence     float64 `json:"confidence"`
	PunctuatedWord string  `json:"punctuated_word,omitempty"`
}

// Alternative is one hypothesis for a transcribed segment.
type Alternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	Words      []Word  `json:"words"`
}

// Channel holds the alternatives decoded for one audio channel.
type Channel struct {
	Alternatives []Alternative `json:"alternatives"`
}

// Result is a live transcription result. IsFinal marks a stabilized
// segment; SpeechFinal additionally marks that sufficient trailing
// silence was observed to consider the speech ended.
type Result struct {
	Channel      Channel `json:"channel"`
	Duration     float64 `json:"duration"`
	Start        float64 `json:"start"`
	IsFinal      bool    `json:"is_final"`
	SpeechFinal  bool    `json:"speech_final"`
	ChannelIndex []int   `json:"channel_index"`
}

func (Result) Kind() EventKind { return EventTranscript }

// Metadata describes the request serving this session.
type Metadata struct {
	TransactionKey string  `json:"transaction_key,omitempty"`
	RequestID      string  `json:"request_id"`
	SHA256         string  `json:"sha256,omitempty"`
	Created        string  `json:"created,omitempty"`
	Duration       float64 `json:"duration,omitempty"`
	Channels       int     `json:"channels,omitempty"`
}

func (Metadata) Kind() EventKind { return EventMetadata }

// SpeechStartedEvent signals detected voice activity.
type SpeechStartedEvent struct {
	Channel   []int   `json:"channel"`
	Timestamp float64 `json:"timestamp"`
}

func (SpeechStartedEvent) Kind() EventKind { return EventSpeechStarted }

// UtteranceEndEvent signals an inferred utterance boundary after
// sufficient trailing silence.
type UtteranceEndEvent struct {
	Channel     []int   `json:"channel"`
	LastWordEnd float64 `json:"last_word_end"`
}

func (UtteranceEndEvent) Kind() EventKind { return EventUtteranceEnd }

// ErrorEvent is an error reported by the service or the transport while
// the session is established.
type ErrorEvent struct {
	Code        *int   `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

func (ErrorEvent) Kind() EventKind { return EventError }

// CloseEvent is emitted exactly once when the session ends, carrying the
// close code and reason when the far end supplied them.
type CloseEvent struct {
	Code   CloseCode `json:"code,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

func (CloseEvent) Kind() EventKind { return EventClose }

// UnhandledEvent carries the raw payload of a frame the client could not
// decode or did not recognize.
type UnhandledEvent struct {
	Raw []byte `json:"raw"`
}

func (UnhandledEvent) Kind() EventKind { return EventUnhandled }

package speechcortex

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "0.1.0"

const (
	DefaultHost         = "wss://api.speechcortex.com"
	DefaultRealtimePath = "/transcribe/realtime"
	DefaultBatchPath    = "/api/v1/transcription"

	DefaultKeepAliveInterval = 5 * time.Second
	DefaultConnectTimeout    = 30 * time.Second
	DefaultSendTimeout       = 5 * time.Second
	DefaultPollInterval      = 3 * time.Second

	DefaultModel    = "cortex-v1"
	DefaultLanguage = "en-US"

	DefaultBatchModel    = "cortex-batch"
	DefaultBatchChannels = 2

	DefaultStreamChunkSize = 8192
)

// ClientOptions configures a SpeechCortex client.
type ClientOptions struct {
	// APIKey authenticates against the service. Realtime sessions send it
	// as "Authorization: Basic <key>"; the batch API uses "X-API-Key".
	APIKey string

	// Host is the service base URL. A missing scheme defaults to wss://.
	Host string

	// Headers are merged over the default connection headers.
	Headers map[string]string

	RealtimePath string
	BatchPath    string

	// KeepAlive enables the periodic keep-alive frame on realtime
	// sessions, preventing idle-timeout disconnects during silence.
	KeepAlive         bool
	KeepAliveInterval time.Duration

	ConnectTimeout time.Duration

	// SendTimeout bounds how long Send, Finish and each keep-alive tick
	// wait for the session goroutine to complete the operation.
	SendTimeout time.Duration

	// Logger receives internal diagnostics. Defaults to a WARN-level
	// stderr logger.
	Logger *log.Logger
}

func (o *ClientOptions) applyDefaults() {
	if o.Host == "" {
		o.Host = DefaultHost
	}
	o.Host = normalizeHost(o.Host)
	if o.RealtimePath == "" {
		o.RealtimePath = DefaultRealtimePath
	}
	o.RealtimePath = normalizePath(o.RealtimePath)
	if o.BatchPath == "" {
		o.BatchPath = DefaultBatchPath
	}
	o.BatchPath = normalizePath(o.BatchPath)
	if o.KeepAliveInterval == 0 {
		o.KeepAliveInterval = DefaultKeepAliveInterval
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.SendTimeout == 0 {
		o.SendTimeout = DefaultSendTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(os.Stderr, log.Options{
			Level:  log.WarnLevel,
			Prefix: "speechcortex",
		})
	}
}

// websocketURL builds the realtime connect target:
// {host}{realtimePath}?{query}.
func (o *ClientOptions) websocketURL(options *RealtimeOptions) string {
	target := o.Host + o.RealtimePath
	if query := options.queryParams().Encode(); query != "" {
		target += "?" + query
	}
	return target
}

// restBaseURL derives the HTTP base URL for the batch API from the
// WebSocket host.
func (o *ClientOptions) restBaseURL() string {
	switch {
	case strings.HasPrefix(o.Host, "wss://"):
		return "https://" + strings.TrimPrefix(o.Host, "wss://")
	case strings.HasPrefix(o.Host, "ws://"):
		return "http://" + strings.TrimPrefix(o.Host, "ws://")
	default:
		return o.Host
	}
}

// connectionHeaders builds the realtime handshake headers.
func (o *ClientOptions) connectionHeaders() http.Header {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if o.APIKey != "" {
		header.Set("Authorization", "Basic "+o.APIKey)
	}
	header.Set("User-Agent", userAgent())
	for k, v := range o.Headers {
		header.Set(k, v)
	}
	return header
}

func userAgent() string {
	return fmt.Sprintf("speechcortex-sdk/%s go/%s", Version, strings.TrimPrefix(runtime.Version(), "go"))
}

func normalizeHost(host string) string {
	lower := strings.ToLower(host)
	if !strings.HasPrefix(lower, "ws://") && !strings.HasPrefix(lower, "wss://") &&
		!strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		host = "wss://" + host
	}
	return strings.TrimRight(host, "/")
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ClientOptionsFromEnv builds ClientOptions from the environment:
// SPEECHCORTEX_API_KEY, SPEECHCORTEX_HOST, SPEECHCORTEX_LOGGING,
// SPEECHCORTEX_REALTIME_PATH and SPEECHCORTEX_BATCH_PATH. It fails when
// the API key is not set.
func ClientOptionsFromEnv() (ClientOptions, error) {
	apiKey := os.Getenv("SPEECHCORTEX_API_KEY")
	if apiKey == "" {
		return ClientOptions{}, ErrAPIKeyMissing
	}

	opts := ClientOptions{
		APIKey:       apiKey,
		Host:         os.Getenv("SPEECHCORTEX_HOST"),
		RealtimePath: os.Getenv("SPEECHCORTEX_REALTIME_PATH"),
		BatchPath:    os.Getenv("SPEECHCORTEX_BATCH_PATH"),
	}

	if levelName := os.Getenv("SPEECHCORTEX_LOGGING"); levelName != "" {
		level, err := log.ParseLevel(levelName)
		if err == nil {
			opts.Logger = log.NewWithOptions(os.Stderr, log.Options{
				Level:  level,
				Prefix: "speechcortex",
			})
		}
	}

	opts.applyDefaults()
	return opts, nil
}

// RealtimeOptions configures a realtime transcription session. Boolean
// features are opt-in; only set options are sent as query parameters.
type RealtimeOptions struct {
	Model          string
	Language       string
	SmartFormat    bool
	Punctuate      bool
	InterimResults bool

	// Encoding, SampleRate and Channels describe the raw audio sent on
	// the session (e.g. "linear16", 16000, 1).
	Encoding   string
	SampleRate int
	Channels   int

	// UtteranceEndMs is the trailing-silence threshold, in milliseconds,
	// after which the service emits an UtteranceEnd event.
	UtteranceEndMs int

	// VADEvents enables SpeechStarted voice-activity events.
	VADEvents bool
}

func (o *RealtimeOptions) applyDefaults() {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
}

// check validates the options before any connection attempt.
func (o *RealtimeOptions) check() error {
	if o.SampleRate < 0 {
		return NewError(ErrorStatusInvalidOptions, "sample rate must be a positive integer")
	}
	if o.Channels < 0 {
		return NewError(ErrorStatusInvalidOptions, "channel count must be a positive integer")
	}
	return nil
}

func (o *RealtimeOptions) queryParams() url.Values {
	params := url.Values{}
	if o.Model != "" {
		params.Set("model", o.Model)
	}
	if o.Language != "" {
		params.Set("language", o.Language)
	}
	if o.SmartFormat {
		params.Set("smart_format", "true")
	}
	if o.Punctuate {
		params.Set("punctuate", "true")
	}
	if o.InterimResults {
		params.Set("interim_results", "true")
	}
	if o.Encoding != "" {
		params.Set("encoding", o.Encoding)
	}
	if o.SampleRate > 0 {
		params.Set("sample_rate", strconv.Itoa(o.SampleRate))
	}
	if o.Channels > 0 {
		params.Set("channels", strconv.Itoa(o.Channels))
	}
	if o.UtteranceEndMs > 0 {
		params.Set("utterance_end_ms", strconv.Itoa(o.UtteranceEndMs))
	}
	if o.VADEvents {
		params.Set("vad_events", "true")
	}
	return params
}

// TranscriptionConfig configures a batch transcription job.
type TranscriptionConfig struct {
	Language    string
	Model       string
	Diarize     bool
	Punctuate   bool
	SmartFormat bool
	Channels    int

	// PCI requests redaction of payment card data.
	PCI bool

	// ExtraParams are appended to the job query string verbatim.
	ExtraParams map[string]string
}

func (c *TranscriptionConfig) applyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Model == "" {
		c.Model = DefaultBatchModel
	}
	if c.Channels == 0 {
		c.Channels = DefaultBatchChannels
	}
}

func (c *TranscriptionConfig) queryParams() url.Values {
	params := url.Values{}
	params.Set("language", c.Language)
	params.Set("model", c.Model)
	params.Set("diarize", strconv.FormatBool(c.Diarize))
	params.Set("punctuate", strconv.FormatBool(c.Punctuate))
	params.Set("smart_format", strconv.FormatBool(c.SmartFormat))
	params.Set("channel", strconv.Itoa(c.Channels))
	params.Set("pci", strconv.FormatBool(c.PCI))
	for k, v := range c.ExtraParams {
		params.Set(k, v)
	}
	return params
}

// BatchOptions configures job polling in WaitForCompletion.
type BatchOptions struct {
	// PollInterval is the delay between status checks.
	PollInterval time.Duration

	// Timeout bounds the total wait. Zero means no timeout.
	Timeout time.Duration
}

func (o *BatchOptions) applyDefaults() {
	if o.PollInterval == 0 {
		o.PollInterval = DefaultPollInterval
	}
}

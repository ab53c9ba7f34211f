package speechcortex

import (
	"strings"
	"testing"
)

// --- Unit tests for State helpers ---

func TestStateIsActive(t *testing.T) {
	active := []State{StateConnecting, StateOpen, StateClosing}
	inactive := []State{StateIdle, StateClosed, StateFailed}

	for _, s := range active {
		if !s.IsActive() {
			t.Errorf("expected %s to be active", s)
		}
	}
	for _, s := range inactive {
		if s.IsActive() {
			t.Errorf("expected %s to be inactive", s)
		}
	}
}

func TestStateIsTerminal(t *testing.T) {
	terminal := []State{StateClosed, StateFailed}
	nonTerminal := []State{StateIdle, StateConnecting, StateOpen, StateClosing}

	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

// --- Unit tests for Error types ---

func TestNewError(t *testing.T) {
	err := NewError(ErrorStatusAPIError, "test error")
	if err.Status != ErrorStatusAPIError {
		t.Errorf("expected status %s, got %s", ErrorStatusAPIError, err.Status)
	}
	if err.Message != "test error" {
		t.Errorf("expected message %q, got %q", "test error", err.Message)
	}
	if err.Code != nil {
		t.Error("expected nil code")
	}
	if err.Cause != nil {
		t.Error("expected nil cause")
	}
}

func TestNewErrorWithCode(t *testing.T) {
	err := NewErrorWithCode(ErrorStatusAPIError, "api err", 42)
	if err.Code == nil || *err.Code != 42 {
		t.Errorf("expected code 42, got %v", err.Code)
	}
	if !strings.Contains(err.Error(), "code=42") {
		t.Errorf("Error() should contain code: %s", err.Error())
	}
}

func TestNewErrorWithCause(t *testing.T) {
	cause := NewError(ErrorStatusWebSocketError, "ws fail")
	err := NewErrorWithCause(ErrorStatusConnectionFailed, "failed", cause)
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return cause")
	}
}

func TestIsErrorStatus(t *testing.T) {
	err := NewError(ErrorStatusAPIError, "test")
	if !IsErrorStatus(err, ErrorStatusAPIError) {
		t.Error("expected IsErrorStatus to return true")
	}
	if IsErrorStatus(err, ErrorStatusWebSocketError) {
		t.Error("expected IsErrorStatus to return false for different status")
	}
	if IsErrorStatus(nil, ErrorStatusAPIError) {
		t.Error("expected IsErrorStatus to return false for nil")
	}
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		code   int
		status ErrorStatus
	}{
		{401, ErrorStatusAuthError},
		{403, ErrorStatusAuthError},
		{404, ErrorStatusJobNotFound},
		{500, ErrorStatusAPIError},
		{422, ErrorStatusAPIError},
	}
	for _, tt := range tests {
		err := mapHTTPError("boom", tt.code)
		if err.Status != tt.status {
			t.Errorf("code %d: expected status %s, got %s", tt.code, tt.status, err.Status)
		}
		if err.Code == nil || *err.Code != tt.code {
			t.Errorf("code %d: expected code to be set", tt.code)
		}
	}
}

// --- Unit tests for Options ---

func TestClientOptionsDefaults(t *testing.T) {
	opts := ClientOptions{}
	opts.applyDefaults()

	if opts.Host != DefaultHost {
		t.Errorf("expected default Host, got %q", opts.Host)
	}
	if opts.RealtimePath != DefaultRealtimePath {
		t.Errorf("expected default RealtimePath, got %q", opts.RealtimePath)
	}
	if opts.BatchPath != DefaultBatchPath {
		t.Errorf("expected default BatchPath, got %q", opts.BatchPath)
	}
	if opts.KeepAliveInterval != DefaultKeepAliveInterval {
		t.Errorf("expected default KeepAliveInterval, got %v", opts.KeepAliveInterval)
	}
	if opts.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("expected default ConnectTimeout, got %v", opts.ConnectTimeout)
	}
	if opts.SendTimeout != DefaultSendTimeout {
		t.Errorf("expected default SendTimeout, got %v", opts.SendTimeout)
	}
	if opts.Logger == nil {
		t.Error("expected a default logger")
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api.example.com", "wss://api.example.com"},
		{"api.example.com/", "wss://api.example.com"},
		{"wss://api.example.com", "wss://api.example.com"},
		{"ws://localhost:8080/", "ws://localhost:8080"},
		{"https://api.example.com", "https://api.example.com"},
	}
	for _, tt := range tests {
		if got := normalizeHost(tt.in); got != tt.want {
			t.Errorf("normalizeHost(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWebsocketURL(t *testing.T) {
	opts := ClientOptions{Host: "api.example.com"}
	opts.applyDefaults()

	session := RealtimeOptions{Model: "cortex-v1", InterimResults: true}
	target := opts.websocketURL(&session)

	if !strings.HasPrefix(target, "wss://api.example.com"+DefaultRealtimePath+"?") {
		t.Errorf("unexpected URL prefix: %s", target)
	}
	if !strings.Contains(target, "model=cortex-v1") {
		t.Errorf("expected model in query: %s", target)
	}
	if !strings.Contains(target, "interim_results=true") {
		t.Errorf("expected interim_results in query: %s", target)
	}
}

func TestRestBaseURL(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"wss://api.example.com", "https://api.example.com"},
		{"ws://localhost:8080", "http://localhost:8080"},
		{"https://api.example.com", "https://api.example.com"},
	}
	for _, tt := range tests {
		opts := ClientOptions{Host: tt.host}
		opts.applyDefaults()
		if got := opts.restBaseURL(); got != tt.want {
			t.Errorf("restBaseURL for %q = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestConnectionHeaders(t *testing.T) {
	opts := ClientOptions{
		APIKey:  "test-key",
		Headers: map[string]string{"X-Custom": "yes"},
	}
	opts.applyDefaults()

	header := opts.connectionHeaders()
	if got := header.Get("Authorization"); got != "Basic test-key" {
		t.Errorf("expected Basic auth header, got %q", got)
	}
	if got := header.Get("X-Custom"); got != "yes" {
		t.Errorf("expected custom header to be merged, got %q", got)
	}
	if !strings.HasPrefix(header.Get("User-Agent"), "speechcortex-sdk/") {
		t.Errorf("unexpected User-Agent: %q", header.Get("User-Agent"))
	}
}

func TestRealtimeOptionsDefaults(t *testing.T) {
	opts := RealtimeOptions{}
	opts.applyDefaults()

	if opts.Model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, opts.Model)
	}
	if opts.Language != DefaultLanguage {
		t.Errorf("expected default language %q, got %q", DefaultLanguage, opts.Language)
	}
}

func TestRealtimeOptionsCheck(t *testing.T) {
	bad := RealtimeOptions{SampleRate: -1}
	if err := bad.check(); !IsErrorStatus(err, ErrorStatusInvalidOptions) {
		t.Errorf("expected invalid_options for negative sample rate, got %v", err)
	}

	bad = RealtimeOptions{Channels: -2}
	if err := bad.check(); !IsErrorStatus(err, ErrorStatusInvalidOptions) {
		t.Errorf("expected invalid_options for negative channels, got %v", err)
	}

	ok := RealtimeOptions{SampleRate: 16000, Channels: 1}
	if err := ok.check(); err != nil {
		t.Errorf("expected valid options, got %v", err)
	}
}

func TestRealtimeOptionsQueryParams(t *testing.T) {
	opts := RealtimeOptions{
		Model:          "cortex-v1",
		Language:       "en-US",
		Punctuate:      true,
		Encoding:       "linear16",
		SampleRate:     16000,
		Channels:       1,
		UtteranceEndMs: 1000,
	}
	params := opts.queryParams()

	if params.Get("model") != "cortex-v1" {
		t.Errorf("expected model param, got %q", params.Get("model"))
	}
	if params.Get("punctuate") != "true" {
		t.Errorf("expected punctuate=true, got %q", params.Get("punctuate"))
	}
	if params.Get("sample_rate") != "16000" {
		t.Errorf("expected sample_rate=16000, got %q", params.Get("sample_rate"))
	}
	if params.Get("utterance_end_ms") != "1000" {
		t.Errorf("expected utterance_end_ms=1000, got %q", params.Get("utterance_end_ms"))
	}

	// Unset boolean features must not appear at all.
	for _, key := range []string{"smart_format", "interim_results", "vad_events"} {
		if _, present := params[key]; present {
			t.Errorf("unset option %q should be omitted", key)
		}
	}
}

func TestTranscriptionConfigQueryParams(t *testing.T) {
	cfg := TranscriptionConfig{ExtraParams: map[string]string{"tier": "enhanced"}}
	cfg.applyDefaults()
	params := cfg.queryParams()

	if params.Get("language") != DefaultLanguage {
		t.Errorf("expected default language, got %q", params.Get("language"))
	}
	if params.Get("model") != DefaultBatchModel {
		t.Errorf("expected default batch model, got %q", params.Get("model"))
	}
	if params.Get("channel") != "2" {
		t.Errorf("expected default channel count, got %q", params.Get("channel"))
	}
	if params.Get("diarize") != "false" {
		t.Errorf("expected diarize=false, got %q", params.Get("diarize"))
	}
	if params.Get("tier") != "enhanced" {
		t.Errorf("expected extra param to be included, got %q", params.Get("tier"))
	}
}

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("SPEECHCORTEX_API_KEY", "env-key")
	t.Setenv("SPEECHCORTEX_HOST", "ws://localhost:9090")
	t.Setenv("SPEECHCORTEX_BATCH_PATH", "custom/batch")

	opts, err := ClientOptionsFromEnv()
	if err != nil {
		t.Fatalf("ClientOptionsFromEnv failed: %v", err)
	}
	if opts.APIKey != "env-key" {
		t.Errorf("expected api key from env, got %q", opts.APIKey)
	}
	if opts.Host != "ws://localhost:9090" {
		t.Errorf("expected host from env, got %q", opts.Host)
	}
	if opts.BatchPath != "/custom/batch" {
		t.Errorf("expected normalized batch path, got %q", opts.BatchPath)
	}
}

func TestClientOptionsFromEnvMissingKey(t *testing.T) {
	t.Setenv("SPEECHCORTEX_API_KEY", "")

	_, err := ClientOptionsFromEnv()
	if !IsErrorStatus(err, ErrorStatusAPIKeyMissing) {
		t.Errorf("expected api_key_missing, got %v", err)
	}
}

// --- Unit tests for Client routing ---

func TestNewClient(t *testing.T) {
	client := NewClient(ClientOptions{APIKey: "test"})
	if client.config.Host != DefaultHost {
		t.Errorf("expected defaults to be applied, got host %q", client.config.Host)
	}
}

func TestRealtimeSessionsAreSingleUse(t *testing.T) {
	client := NewClient(ClientOptions{APIKey: "test"})
	router := client.Transcribe()

	first := router.Realtime()
	second := router.Realtime()
	if first == second {
		t.Error("expected each Realtime call to return a fresh session client")
	}
	if first.State() != StateIdle {
		t.Errorf("expected new session in Idle state, got %s", first.State())
	}
}

func TestBatchRequiresAPIKey(t *testing.T) {
	client := NewClient(ClientOptions{})
	_, err := client.Transcribe().Batch()
	if !IsErrorStatus(err, ErrorStatusAPIKeyMissing) {
		t.Errorf("expected api_key_missing, got %v", err)
	}
}

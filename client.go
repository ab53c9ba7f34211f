package speechcortex

// Client is the entry point to the SpeechCortex speech recognition
// services. It holds shared configuration and hands out per-concern
// clients through Transcribe.
type Client struct {
	config ClientOptions
}

// NewClient creates a client with the given options.
func NewClient(config ClientOptions) *Client {
	config.applyDefaults()
	return &Client{config: config}
}

// NewClientFromEnv creates a client configured from SPEECHCORTEX_*
// environment variables. It fails when SPEECHCORTEX_API_KEY is not set.
func NewClientFromEnv() (*Client, error) {
	config, err := ClientOptionsFromEnv()
	if err != nil {
		return nil, err
	}
	return &Client{config: config}, nil
}

// Transcribe provides access to the transcription services.
func (c *Client) Transcribe() *TranscribeRouter {
	return &TranscribeRouter{config: c.config}
}

// TranscribeRouter routes to the realtime and batch transcription
// clients.
type TranscribeRouter struct {
	config ClientOptions
}

// Realtime returns a new realtime session client. Sessions are
// single-use: each call returns a fresh client for one connection.
func (r *TranscribeRouter) Realtime() *RealtimeClient {
	return NewRealtimeClient(r.config)
}

// Batch returns a batch transcription client.
func (r *TranscribeRouter) Batch() (*BatchClient, error) {
	return NewBatchClient(r.config)
}

// Package speechcortex provides a Go SDK for the SpeechCortex ASR
// (Automatic Speech Recognition) platform.
//
// The SDK offers two ways to transcribe audio:
//
//   - Realtime: a duplex WebSocket session streaming raw audio up and
//     typed transcription events down
//   - Batch: submit an audio file or presigned URL and poll for the
//     finished transcription
//
// # Realtime transcription
//
// Create a client, register handlers for the events you care about,
// start the session, then stream audio with Send:
//
//	client := speechcortex.NewClient(speechcortex.ClientOptions{
//	    APIKey: "your-api-key",
//	})
//	session := client.Transcribe().Realtime()
//
//	session.OnTranscript(func(result speechcortex.Result) {
//	    if len(result.Channel.Alternatives) > 0 && result.IsFinal {
//	        fmt.Println(result.Channel.Alternatives[0].Transcript)
//	    }
//	})
//	session.OnClose(func(ev speechcortex.CloseEvent) {
//	    fmt.Println("closed:", ev.Code)
//	})
//
//	err := session.Start(ctx, speechcortex.RealtimeOptions{
//	    Model:          "cortex-v1",
//	    Encoding:       "linear16",
//	    SampleRate:     16000,
//	    Channels:       1,
//	    InterimResults: true,
//	})
//
//	session.Send(audioChunk)
//	session.Finish()
//
// Handlers for one session run on a single goroutine in frame-receipt
// order; a panicking handler is logged and isolated from the others.
// Once a session is started, failures are reported exclusively through
// the Error and Close events — there is no out-of-band error channel.
// A session client is single-use; obtain a new one from the router to
// reconnect.
//
// # Batch transcription
//
// The batch client submits a job and polls until it completes:
//
//	batch, err := client.Transcribe().Batch()
//	result, err := batch.Transcribe(ctx, presignedURL, nil, nil)
//
// SubmitFile uploads local audio instead of a presigned URL, and
// SubmitURL / GetStatus / GetTranscription / WaitForCompletion expose
// the individual steps.
//
// # Keep-alive
//
// For sessions with long silent stretches (e.g. voice-activated apps),
// enable keep-alive so the service does not drop an idle connection:
//
//	client := speechcortex.NewClient(speechcortex.ClientOptions{
//	    APIKey:    "your-api-key",
//	    KeepAlive: true,
//	})
//
// # Error handling
//
// Errors returned by the SDK can be inspected with errors.As against
// *speechcortex.Error, or with IsErrorStatus:
//
//	if speechcortex.IsErrorStatus(err, speechcortex.ErrorStatusNotReady) {
//	    // job still running
//	}
//
// # Configuration
//
// NewClientFromEnv reads SPEECHCORTEX_API_KEY, SPEECHCORTEX_HOST,
// SPEECHCORTEX_LOGGING, SPEECHCORTEX_REALTIME_PATH and
// SPEECHCORTEX_BATCH_PATH from the environment.
package speechcortex

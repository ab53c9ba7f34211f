package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	speechcortex "github.com/speechcortex/speechcortex-go"
)

func main() {
	apiKey := os.Getenv("SPEECHCORTEX_API_KEY")
	if apiKey == "" {
		log.Fatal("SPEECHCORTEX_API_KEY environment variable is required")
	}

	// Get audio files from command line
	audioFiles := os.Args[1:]
	if len(audioFiles) == 0 {
		log.Fatal("Usage: go run main.go <audio_file1> [audio_file2] ...")
	}

	for _, filepath := range audioFiles {
		fmt.Printf("\n=== Transcribing: %s ===\n", filepath)

		if err := transcribeFile(apiKey, filepath); err != nil {
			log.Printf("Error transcribing %s: %v", filepath, err)
		}

		fmt.Println()
	}
}

func transcribeFile(apiKey, filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)

	var finalText string
	var transcribeErr error

	client := speechcortex.NewClient(speechcortex.ClientOptions{
		APIKey: apiKey,
		Host:   os.Getenv("SPEECHCORTEX_HOST"),
	})
	session := client.Transcribe().Realtime()

	session.OnTranscript(func(result speechcortex.Result) {
		if len(result.Channel.Alternatives) == 0 || !result.IsFinal {
			return
		}
		text := result.Channel.Alternatives[0].Transcript
		if text != "" {
			finalText += text + " "
			fmt.Print(text, " ")
		}
	})
	session.OnError(func(ev speechcortex.ErrorEvent) {
		log.Printf("Error: %s", ev.Message)
		transcribeErr = speechcortex.NewError(speechcortex.ErrorStatusAPIError, ev.Message)
	})
	session.OnClose(func(ev speechcortex.CloseEvent) {
		log.Printf("Closed: %s", ev.Code)
		wg.Done()
	})

	err = session.Start(ctx, speechcortex.RealtimeOptions{
		Encoding:       "linear16",
		SampleRate:     16000,
		Channels:       1,
		Punctuate:      true,
		InterimResults: true,
	})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	// Read and send audio data
	buffer := make([]byte, 4096)
	for {
		n, err := file.Read(buffer)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}

		chunk := make([]byte, n)
		copy(chunk, buffer[:n])
		if err := session.Send(chunk); err != nil {
			return fmt.Errorf("error sending audio: %w", err)
		}

		// Small delay to simulate streaming
		time.Sleep(5 * time.Millisecond)
	}

	// Give the service time to flush results, then close
	time.Sleep(2 * time.Second)
	if err := session.Finish(); err != nil {
		return fmt.Errorf("error finishing: %w", err)
	}

	// Wait for the close event
	wg.Wait()

	if transcribeErr != nil {
		return transcribeErr
	}

	fmt.Printf("\n\nFinal transcription: %s\n", finalText)
	return nil
}

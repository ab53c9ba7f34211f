// Package microphone captures audio from the default input device and
// pushes little-endian 16-bit PCM chunks to a send function, typically
// RealtimeClient.Send. It requires PortAudio (portaudio19-dev on
// Debian/Ubuntu, `brew install portaudio` on macOS).
package microphone

import (
	"encoding/binary"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	DefaultSampleRate = 16000
	DefaultChannels   = 1
	DefaultChunkSize  = 8192
)

// SendFunc receives one chunk of captured PCM audio. A returned error is
// ignored by the capture loop; the microphone keeps recording.
type SendFunc func([]byte) error

// Options configures the capture stream.
type Options struct {
	SampleRate int
	Channels   int
	ChunkSize  int
}

func (o *Options) applyDefaults() {
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Channels == 0 {
		o.Channels = DefaultChannels
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
}

// Microphone streams audio from the default input device.
type Microphone struct {
	send    SendFunc
	options Options

	stream *portaudio.Stream
	buffer []int16

	mu    sync.Mutex
	muted bool

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New creates a microphone that pushes captured audio to send.
func New(send SendFunc, options Options) (*Microphone, error) {
	options.applyDefaults()

	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	buffer := make([]int16, options.ChunkSize)
	stream, err := portaudio.OpenDefaultStream(options.Channels, 0,
		float64(options.SampleRate), len(buffer), &buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &Microphone{
		send:    send,
		options: options,
		stream:  stream,
		buffer:  buffer,
		done:    make(chan struct{}),
	}, nil
}

// Start begins capturing. Muted chunks are dropped, not sent.
func (m *Microphone) Start() error {
	if err := m.stream.Start(); err != nil {
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case <-m.done:
				return
			default:
			}

			if err := m.stream.Read(); err != nil {
				return
			}

			m.mu.Lock()
			muted := m.muted
			m.mu.Unlock()
			if muted {
				continue
			}

			chunk := make([]byte, len(m.buffer)*2)
			for i, sample := range m.buffer {
				binary.LittleEndian.PutUint16(chunk[i*2:], uint16(sample))
			}
			m.send(chunk)
		}
	}()
	return nil
}

// Mute stops forwarding audio without stopping the capture stream.
func (m *Microphone) Mute() {
	m.mu.Lock()
	m.muted = true
	m.mu.Unlock()
}

// Unmute resumes forwarding audio.
func (m *Microphone) Unmute() {
	m.mu.Lock()
	m.muted = false
	m.mu.Unlock()
}

// Finish stops capturing and releases the device. It is idempotent.
func (m *Microphone) Finish() error {
	var err error
	m.once.Do(func() {
		close(m.done)
		if abortErr := m.stream.Abort(); abortErr != nil {
			err = abortErr
		}
		m.wg.Wait()
		if closeErr := m.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		portaudio.Terminate()
	})
	return err
}

package speechcortex

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// commandKind identifies an operation handed off to the session goroutine.
type commandKind int

const (
	cmdSendAudio commandKind = iota
	cmdSendKeepAlive
	cmdClose
)

type command struct {
	kind  commandKind
	data  []byte
	reply chan error
}

// closeInfo captures how the receive loop ended.
type closeInfo struct {
	code   CloseCode
	reason string
	err    error
}

// RealtimeClient is a live transcription session over a WebSocket.
//
// A single goroutine owns the connection: every write crosses into it
// through a command channel, and every event is emitted from it, so all
// handler invocations for one session are totally ordered. Send and
// Finish may be called from any goroutine.
//
// A RealtimeClient drives one session. Once it reaches a terminal state
// it cannot be restarted; obtain a fresh client for a new connection.
type RealtimeClient struct {
	config ClientOptions
	logger *log.Logger

	dispatcher *eventDispatcher

	mu    sync.Mutex
	state State

	commands chan command
	shutdown chan struct{}
	exited   chan struct{}

	shutdownOnce sync.Once
}

// NewRealtimeClient creates a realtime session client. Register event
// handlers before calling Start.
func NewRealtimeClient(config ClientOptions) *RealtimeClient {
	config.applyDefaults()
	return &RealtimeClient{
		config:     config,
		logger:     config.Logger,
		dispatcher: newEventDispatcher(config.Logger),
		state:      StateIdle,
		commands:   make(chan command),
		shutdown:   make(chan struct{}),
		exited:     make(chan struct{}),
	}
}

// State returns the current session state.
func (c *RealtimeClient) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *RealtimeClient) setState(newState State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == newState || c.state.IsTerminal() {
		return
	}
	c.logger.Debug("state change", "from", c.state, "to", newState)
	c.state = newState
}

// OnOpen registers a handler for the Open event.
func (c *RealtimeClient) OnOpen(handler func(OpenEvent)) {
	c.dispatcher.register(EventOpen, func(ev Event) { handler(ev.(OpenEvent)) })
}

// OnTranscript registers a handler for live transcription results.
func (c *RealtimeClient) OnTranscript(handler func(Result)) {
	c.dispatcher.register(EventTranscript, func(ev Event) { handler(ev.(Result)) })
}

// OnMetadata registers a handler for request metadata.
func (c *RealtimeClient) OnMetadata(handler func(Metadata)) {
	c.dispatcher.register(EventMetadata, func(ev Event) { handler(ev.(Metadata)) })
}

// OnSpeechStarted registers a handler for voice-activity events.
func (c *RealtimeClient) OnSpeechStarted(handler func(SpeechStartedEvent)) {
	c.dispatcher.register(EventSpeechStarted, func(ev Event) { handler(ev.(SpeechStartedEvent)) })
}

// OnUtteranceEnd registers a handler for utterance boundary events.
func (c *RealtimeClient) OnUtteranceEnd(handler func(UtteranceEndEvent)) {
	c.dispatcher.register(EventUtteranceEnd, func(ev Event) { handler(ev.(UtteranceEndEvent)) })
}

// OnError registers a handler for service and transport errors.
func (c *RealtimeClient) OnError(handler func(ErrorEvent)) {
	c.dispatcher.register(EventError, func(ev Event) { handler(ev.(ErrorEvent)) })
}

// OnClose registers a handler for the Close event.
func (c *RealtimeClient) OnClose(handler func(CloseEvent)) {
	c.dispatcher.register(EventClose, func(ev Event) { handler(ev.(CloseEvent)) })
}

// OnUnhandled registers a handler for frames the client did not recognize.
func (c *RealtimeClient) OnUnhandled(handler func(UnhandledEvent)) {
	c.dispatcher.register(EventUnhandled, func(ev Event) { handler(ev.(UnhandledEvent)) })
}

// Start validates options, connects and begins the session. The context
// bounds the connection handshake only; use Finish to end the session.
// On a validation or connection failure no Close event is emitted.
func (c *RealtimeClient) Start(ctx context.Context, options RealtimeOptions) error {
	options.applyDefaults()
	if err := options.check(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.state = StateConnecting
	c.mu.Unlock()

	target := c.config.websocketURL(&options)
	c.logger.Debug("connecting", "url", target)

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.ConnectTimeout,
	}
	connCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, _, err := dialer.DialContext(connCtx, target, c.config.connectionHeaders())
	if err != nil {
		c.setState(StateFailed)
		c.logger.Error("websocket connect failed", "err", err)
		return NewErrorWithCause(ErrorStatusConnectionFailed, "failed to connect", err)
	}

	frames := make(chan []byte, 16)
	result := make(chan closeInfo, 1)

	go c.readLoop(conn, frames, result)
	go c.run(conn, frames, result)
	if c.config.KeepAlive {
		c.logger.Debug("keep-alive enabled", "interval", c.config.KeepAliveInterval)
		go c.keepAliveLoop()
	}

	c.setState(StateOpen)
	return nil
}

// readLoop blocks on the connection and feeds inbound text frames to the
// session goroutine. It exits when the connection errors or closes,
// reporting the captured close code or transport error.
func (c *RealtimeClient) readLoop(conn *websocket.Conn, frames chan<- []byte, result chan<- closeInfo) {
	defer close(frames)
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			info := closeInfo{}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				info.code = CloseCode(closeErr.Code)
				info.reason = closeErr.Text
			} else {
				info.err = err
			}
			result <- info
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		frames <- data
	}
}

// run is the session goroutine. It owns the connection: it performs all
// writes, decodes every inbound frame in receipt order, and emits all
// events, ending with exactly one Close event.
func (c *RealtimeClient) run(conn *websocket.Conn, frames <-chan []byte, result <-chan closeInfo) {
	defer close(c.exited)
	defer conn.Close()

	c.dispatcher.emit(OpenEvent{})

	var info closeInfo
loop:
	for {
		select {
		case cmd := <-c.commands:
			cmd.reply <- c.handleCommand(conn, cmd)
		case data, ok := <-frames:
			if !ok {
				info = <-result
				break loop
			}
			c.dispatcher.emit(decodeEvent(data))
		}
	}

	if info.err != nil {
		if c.shutdownRequested() || isClosedConn(info.err) {
			c.logger.Debug("receive loop ended", "err", info.err)
		} else {
			c.logger.Error("websocket error", "err", info.err)
			c.dispatcher.emit(ErrorEvent{
				Message:     info.err.Error(),
				Description: "WebSocket connection error",
			})
		}
	} else if info.code != 0 {
		c.logger.Debug("connection closed by peer", "code", info.code, "reason", info.reason)
	}

	c.dispatcher.emit(CloseEvent{Code: info.code, Reason: info.reason})
	c.setState(StateClosed)
}

func (c *RealtimeClient) handleCommand(conn *websocket.Conn, cmd command) error {
	deadline := time.Now().Add(c.config.SendTimeout)
	switch cmd.kind {
	case cmdSendAudio:
		conn.SetWriteDeadline(deadline)
		return conn.WriteMessage(websocket.BinaryMessage, cmd.data)
	case cmdSendKeepAlive:
		conn.SetWriteDeadline(deadline)
		return conn.WriteMessage(websocket.TextMessage, cmd.data)
	case cmdClose:
		conn.SetWriteDeadline(deadline)
		err := conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// Bound the wait for the peer's close reply; the read loop exits
		// on the reply or on this deadline, whichever comes first.
		conn.SetReadDeadline(deadline)
		return err
	default:
		return nil
	}
}

// dispatch hands a command to the session goroutine and waits for the
// write to complete, bounded by SendTimeout on both the hand-off and the
// completion wait. On timeout the command is abandoned, not cancelled:
// a write already handed off may still complete on the wire.
func (c *RealtimeClient) dispatch(cmd command) error {
	timer := time.NewTimer(c.config.SendTimeout)
	defer timer.Stop()

	select {
	case c.commands <- cmd:
	case <-c.exited:
		return ErrNotConnected
	case <-timer.C:
		return NewError(ErrorStatusSendTimeout, "timed out handing operation to the session")
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-c.exited:
		return ErrNotConnected
	case <-timer.C:
		return NewError(ErrorStatusSendTimeout, "timed out waiting for the session to complete the operation")
	}
}

// Send forwards one chunk of raw audio to the service as a binary frame.
// It is safe to call from any goroutine and blocks up to SendTimeout. It
// fails with a typed error when the session is not open; chunks from
// concurrent callers are written in the order the session observes them.
func (c *RealtimeClient) Send(data []byte) error {
	if c.State() != StateOpen {
		return ErrNotConnected
	}
	if err := c.dispatch(command{kind: cmdSendAudio, data: data, reply: make(chan error, 1)}); err != nil {
		if IsErrorStatus(err, ErrorStatusSendTimeout) || IsErrorStatus(err, ErrorStatusInvalidState) {
			return err
		}
		return NewErrorWithCause(ErrorStatusWebSocketError, "failed to send audio", err)
	}
	return nil
}

// KeepAlive sends one keep-alive control frame.
func (c *RealtimeClient) KeepAlive() error {
	if c.State() != StateOpen {
		return ErrNotConnected
	}
	return c.dispatch(command{kind: cmdSendKeepAlive, data: encodeKeepAlive(), reply: make(chan error, 1)})
}

// keepAliveLoop ticks until shutdown. A failed keep-alive is logged and
// never ends the session.
func (c *RealtimeClient) keepAliveLoop() {
	ticker := time.NewTicker(c.config.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.shutdown:
			return
		case <-c.exited:
			return
		case <-ticker.C:
			if err := c.KeepAlive(); err != nil {
				c.logger.Warn("keep-alive failed", "err", err)
			}
		}
	}
}

// Finish gracefully ends the session: it signals shutdown, asks the
// session goroutine to close the connection, and waits (bounded) for the
// receive loop to terminate and the Close event to be emitted. Finish is
// idempotent and safe to call in any state.
func (c *RealtimeClient) Finish() error {
	c.mu.Lock()
	switch c.state {
	case StateIdle:
		c.state = StateClosed
		c.mu.Unlock()
		return nil
	case StateClosed, StateFailed:
		c.mu.Unlock()
		return nil
	case StateClosing:
		c.mu.Unlock()
	default:
		c.state = StateClosing
		c.mu.Unlock()
	}

	c.shutdownOnce.Do(func() { close(c.shutdown) })

	if err := c.dispatch(command{kind: cmdClose, reply: make(chan error, 1)}); err != nil {
		c.logger.Debug("close hand-off did not complete", "err", err)
	}

	select {
	case <-c.exited:
	case <-time.After(c.config.SendTimeout):
		// Partial shutdown: the receive loop is left to wind down on its
		// own; its read deadline guarantees it does.
		c.logger.Warn("timed out waiting for the receive loop to exit")
	}
	return nil
}

func (c *RealtimeClient) shutdownRequested() bool {
	select {
	case <-c.shutdown:
		return true
	default:
		return false
	}
}

func isClosedConn(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package netplay

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PeerKey is stamped on every outgoing message with the sender's ID.
const PeerKey = "peer"

type Options struct {
	SendQueue    int
	RecvQueue    int
	WriteTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		SendQueue:    32,
		RecvQueue:    256,
		WriteTimeout: time.Second,
	}
}

// Client is a relay peer. Sending and receiving happen on background
// goroutines; the game loop only calls TrySend and PollReceived, neither of
// which blocks.
type Client struct {
	ID uuid.UUID

	conn net.Conn
	opts Options
	log  *zap.Logger
	out  chan []byte

	mu      sync.Mutex
	inbox   []Message
	dropped int
	alive   bool

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func Dial(ctx context.Context, addr string, log *zap.Logger) (*Client, error) {
	return DialOptions(ctx, addr, DefaultOptions(), log)
}

func DialOptions(ctx context.Context, addr string, opts Options, log *zap.Logger) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return newClient(conn, opts, log), nil
}

func newClient(conn net.Conn, opts Options, log *zap.Logger) *Client {
	def := DefaultOptions()
	if opts.SendQueue <= 0 {
		opts.SendQueue = def.SendQueue
	}
	if opts.RecvQueue <= 0 {
		opts.RecvQueue = def.RecvQueue
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = def.WriteTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		ID:    uuid.New(),
		conn:  conn,
		opts:  opts,
		out:   make(chan []byte, opts.SendQueue),
		alive: true,
		done:  make(chan struct{}),
	}
	c.log = log.With(zap.String("peer_id", c.ID.String()))

	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	return c
}

// TrySend queues msg for the relay and reports whether it was accepted. A
// full queue or a dead connection drops the message.
func (c *Client) TrySend(msg Message) bool {
	if !c.Connected() {
		return false
	}
	stamped := make(Message, len(msg)+1)
	for k, v := range msg {
		stamped[k] = v
	}
	if _, ok := stamped[PeerKey]; !ok {
		stamped[PeerKey] = c.ID.String()
	}
	line, err := encodeLine(stamped)
	if err != nil {
		c.log.Warn("send encode failed", zap.Error(err))
		return false
	}
	select {
	case c.out <- line:
		return true
	default:
		return false
	}
}

// PollReceived drains every message received since the last call.
func (c *Client) PollReceived() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := c.inbox
	c.inbox = nil
	return msgs
}

// Dropped counts received messages discarded because the inbox was full.
func (c *Client) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
		c.wg.Wait()
	})
	return err
}

func (c *Client) readLoop() {
	defer c.wg.Done()
	defer c.markDead()

	s := newScanner(c.conn)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := decodeLine(line)
		if err != nil {
			c.log.Warn("dropping malformed message", zap.Error(err))
			continue
		}
		c.mu.Lock()
		if len(c.inbox) >= c.opts.RecvQueue {
			c.inbox = c.inbox[1:]
			c.dropped++
		}
		c.inbox = append(c.inbox, msg)
		c.mu.Unlock()
	}
	if err := s.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.log.Warn("receive failed", zap.Error(err))
	}
}

func (c *Client) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case line := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
			if _, err := c.conn.Write(line); err != nil {
				c.log.Warn("send failed", zap.Error(err))
				c.markDead()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) markDead() {
	c.mu.Lock()
	c.alive = false
	c.mu.Unlock()
}

package netplay

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	peerQueue         = 64
	relayWriteTimeout = 2 * time.Second
)

// Relay accepts TCP peers and re-broadcasts every JSON line a peer sends to
// all other connected peers. It never interprets the payload beyond checking
// that it is a JSON object.
type Relay struct {
	ln  net.Listener
	log *zap.Logger

	mu     sync.Mutex
	peers  map[*peer]struct{}
	closed bool

	wg   sync.WaitGroup
	once sync.Once
	done chan struct{}
}

type peer struct {
	conn net.Conn
	out  chan []byte
	log  *zap.Logger
}

// ListenRelay starts a relay on addr. It shuts down when ctx is cancelled or
// Close is called.
func ListenRelay(ctx context.Context, addr string, log *zap.Logger) (*Relay, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if addr == "" {
		addr = DefaultAddr
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	r := &Relay{
		ln:    ln,
		log:   log.With(zap.String("relay", ln.Addr().String())),
		peers: make(map[*peer]struct{}),
		done:  make(chan struct{}),
	}
	r.log.Info("relay listening")

	r.wg.Add(1)
	go r.acceptLoop()
	go func() {
		select {
		case <-ctx.Done():
			_ = r.Close()
		case <-r.done:
		}
	}()
	return r, nil
}

func (r *Relay) Addr() net.Addr {
	return r.ln.Addr()
}

// Peers reports how many peers are connected.
func (r *Relay) Peers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// Close stops accepting, disconnects every peer and waits for their
// goroutines.
func (r *Relay) Close() error {
	var err error
	r.once.Do(func() {
		close(r.done)
		r.mu.Lock()
		r.closed = true
		err = r.ln.Close()
		for p := range r.peers {
			_ = p.conn.Close()
		}
		r.mu.Unlock()
		r.wg.Wait()
		r.log.Info("relay stopped")
	})
	return err
}

func (r *Relay) acceptLoop() {
	defer r.wg.Done()
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			r.log.Warn("accept failed", zap.Error(err))
			continue
		}

		p := &peer{
			conn: conn,
			out:  make(chan []byte, peerQueue),
			log:  r.log.With(zap.String("peer", conn.RemoteAddr().String())),
		}
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			_ = conn.Close()
			return
		}
		r.peers[p] = struct{}{}
		r.mu.Unlock()
		p.log.Info("peer connected")

		r.wg.Add(2)
		go r.readLoop(p)
		go r.writeLoop(p)
	}
}

func (r *Relay) readLoop(p *peer) {
	defer r.wg.Done()
	defer r.remove(p)

	s := newScanner(p.conn)
	for s.Scan() {
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		msg, err := decodeLine(line)
		if err != nil {
			p.log.Warn("dropping malformed message", zap.Error(err))
			continue
		}
		out, err := encodeLine(msg)
		if err != nil {
			continue
		}
		r.broadcast(out, p)
	}
	if err := s.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		p.log.Warn("peer read failed", zap.Error(err))
	}
}

func (r *Relay) writeLoop(p *peer) {
	defer r.wg.Done()
	for line := range p.out {
		_ = p.conn.SetWriteDeadline(time.Now().Add(relayWriteTimeout))
		if _, err := p.conn.Write(line); err != nil {
			p.log.Warn("peer write failed", zap.Error(err))
			_ = p.conn.Close()
			for range p.out {
			}
			return
		}
	}
}

func (r *Relay) broadcast(line []byte, from *peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for p := range r.peers {
		if p == from {
			continue
		}
		select {
		case p.out <- line:
		default:
			p.log.Warn("peer queue full, dropping message")
		}
	}
}

func (r *Relay) remove(p *peer) {
	r.mu.Lock()
	if _, ok := r.peers[p]; ok {
		delete(r.peers, p)
		close(p.out)
	}
	r.mu.Unlock()
	_ = p.conn.Close()
	p.log.Info("peer disconnected")
}

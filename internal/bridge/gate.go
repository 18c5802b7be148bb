package bridge

import (
	"context"
	"io"
	"sync"
	"time"
)

// Dialer establishes a bridge connection.
type Dialer func(ctx context.Context) (Client, error)

// WebSocketDialer returns a Dialer for a JSON-RPC WebSocket endpoint.
func WebSocketDialer(url string, timeout time.Duration) Dialer {
	return func(ctx context.Context) (Client, error) {
		c, err := Dial(ctx, url, timeout)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Gate hands out the bridge client once a connection exists. Callers ask the
// gate instead of probing for the bridge themselves.
type Gate struct {
	dial Dialer

	mu     sync.Mutex
	client Client
}

// NewGate creates a gate that connects lazily through dial.
func NewGate(dial Dialer) *Gate {
	return &Gate{dial: dial}
}

// Connected creates a gate around an existing client.
func Connected(c Client) *Gate {
	return &Gate{client: c}
}

// Connect returns the current client, dialing when none is available.
func (g *Gate) Connect(ctx context.Context) (Client, error) {
	if c, ok := g.Client(); ok {
		return c, nil
	}
	if g.dial == nil {
		return nil, &TransportError{Err: ErrClosed}
	}
	c, err := g.dial(ctx)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		// lost the race against a concurrent Connect
		closeClient(c)
		return g.client, nil
	}
	g.client = c
	return c, nil
}

// Client returns the connected client, if any. A client whose connection
// has gone away is dropped.
func (g *Gate) Client() (Client, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil, false
	}
	if d, ok := g.client.(interface{ Done() <-chan struct{} }); ok {
		select {
		case <-d.Done():
			closeClient(g.client)
			g.client = nil
			return nil, false
		default:
		}
	}
	return g.client, true
}

// Ready reports whether a client is available.
func (g *Gate) Ready() bool {
	_, ok := g.Client()
	return ok
}

// Close releases the current client.
func (g *Gate) Close() error {
	g.mu.Lock()
	c := g.client
	g.client = nil
	g.mu.Unlock()
	return closeClient(c)
}

func closeClient(c Client) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/editor-reset-control/internal/logging/events"
	"github.com/gorilla/websocket"
)

// RPCClient speaks JSON-RPC 2.0 to the bridge over a WebSocket connection.
type RPCClient struct {
	conn    *websocket.Conn
	timeout time.Duration

	writeMu sync.Mutex
	mu      sync.Mutex
	nextID  atomic.Int64
	pending map[int64]chan rpcResult
	closed  atomic.Bool
	closing atomic.Bool
	done    chan struct{}
}

type rpcResult struct {
	result json.RawMessage
	err    error
}

type jsonrpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Dial connects to the bridge endpoint. timeout bounds every individual call;
// zero disables the bound.
func Dial(ctx context.Context, url string, timeout time.Duration) (*RPCClient, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("dial %s: %w", url, err)}
	}
	c := &RPCClient{
		conn:    conn,
		timeout: timeout,
		pending: make(map[int64]chan rpcResult),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Close shuts the connection down and fails all outstanding calls.
func (c *RPCClient) Close() error {
	if c.closing.Swap(true) {
		return nil
	}
	c.closed.Store(true)
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	err := c.conn.Close()
	<-c.done
	return err
}

// Done is closed once the read loop exits.
func (c *RPCClient) Done() <-chan struct{} {
	return c.done
}

func (c *RPCClient) readLoop() {
	defer close(c.done)
	defer c.cleanupPending()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.closed.Store(true)
			return
		}
		var msg jsonrpcResponse
		if err := json.Unmarshal(data, &msg); err != nil || msg.ID == nil {
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[*msg.ID]
		if ok {
			delete(c.pending, *msg.ID)
		}
		c.mu.Unlock()
		if !ok {
			continue
		}
		if msg.Error != nil {
			ch <- rpcResult{err: msg.Error}
		} else {
			ch <- rpcResult{result: msg.Result}
		}
		close(ch)
	}
}

func (c *RPCClient) cleanupPending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.pending {
		close(ch)
	}
	c.pending = map[int64]chan rpcResult{}
}

// call issues one request and waits for its raw result.
func (c *RPCClient) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if c.closed.Load() {
		return nil, &TransportError{Method: method, Err: ErrClosed}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if params == nil {
		params = []interface{}{}
	}

	id := c.nextID.Add(1)
	ch := make(chan rpcResult, 1)
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return nil, &TransportError{Method: method, Err: ErrClosed}
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	events.Bridge.Call(method, id)
	data, err := json.Marshal(jsonrpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		events.Bridge.Transport(method, err)
		return nil, &TransportError{Method: method, Err: err}
	}

	select {
	case result, ok := <-ch:
		if !ok {
			events.Bridge.Transport(method, ErrClosed)
			return nil, &TransportError{Method: method, Err: ErrClosed}
		}
		if result.err != nil {
			events.Bridge.Transport(method, result.err)
			return nil, &TransportError{Method: method, Err: result.err}
		}
		success, message := Envelope(result.result)
		events.Bridge.Result(method, success, message)
		return result.result, nil
	case <-ctx.Done():
		events.Bridge.Transport(method, ctx.Err())
		return nil, &TransportError{Method: method, Err: ctx.Err()}
	}
}

func invoke[T any](ctx context.Context, c *RPCClient, method string, params ...interface{}) (Response[T], error) {
	raw, err := c.call(ctx, method, params...)
	if err != nil {
		return Response[T]{}, err
	}
	resp, err := decodeResponse[T](raw)
	if err != nil {
		return Response[T]{}, &TransportError{Method: method, Err: err}
	}
	return resp, nil
}

func (c *RPCClient) detect(ctx context.Context, method string) (DetectResult, error) {
	raw, err := c.call(ctx, method)
	if err != nil {
		return DetectResult{}, err
	}
	res, err := decodeDetect(raw)
	if err != nil {
		return DetectResult{}, &TransportError{Method: method, Err: err}
	}
	return res, nil
}

func (c *RPCClient) Status(ctx context.Context) (Response[StatusInfo], error) {
	return invoke[StatusInfo](ctx, c, MethodStatus)
}

func (c *RPCClient) SystemInfo(ctx context.Context) (Response[SystemInfo], error) {
	return invoke[SystemInfo](ctx, c, MethodSystemInfo)
}

func (c *RPCClient) SetEditorType(ctx context.Context, name string, info *EditorTarget) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodSetEditorType, name, info)
}

func (c *RPCClient) ModifyTelemetry(ctx context.Context) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodModifyTelemetry)
}

func (c *RPCClient) CleanDatabase(ctx context.Context) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodCleanDatabase)
}

func (c *RPCClient) CleanWorkspace(ctx context.Context) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodCleanWorkspace)
}

func (c *RPCClient) RunAllOperations(ctx context.Context) (BatchResponse, error) {
	return invoke[BatchResult](ctx, c, MethodRunAllOperations)
}

func (c *RPCClient) DetectIDEs(ctx context.Context) (DetectResult, error) {
	return c.detect(ctx, MethodDetectIDEs)
}

func (c *RPCClient) DefaultIDEs(ctx context.Context) (DetectResult, error) {
	return c.detect(ctx, MethodDefaultIDEs)
}

func (c *RPCClient) SupportedOperations(ctx context.Context) (Response[OperationsPayload], error) {
	return invoke[OperationsPayload](ctx, c, MethodSupportedOperations)
}

func (c *RPCClient) IsFirstRun(ctx context.Context) (Response[FirstRun], error) {
	return invoke[FirstRun](ctx, c, MethodIsFirstRun)
}

func (c *RPCClient) MarkFirstRunComplete(ctx context.Context) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodMarkFirstRunComplete)
}

func (c *RPCClient) VersionInfo(ctx context.Context) (Response[VersionInfo], error) {
	return invoke[VersionInfo](ctx, c, MethodVersionInfo)
}

func (c *RPCClient) OpenExternalLink(ctx context.Context, url string) (OperationResult, error) {
	return invoke[ResultData](ctx, c, MethodOpenExternalLink, url)
}

var _ Client = (*RPCClient)(nil)

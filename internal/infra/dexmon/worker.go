package dexmon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"launchpad_go/internal/domain"
	"launchpad_go/internal/infra"

	"github.com/gorilla/websocket"
)

var _ domain.EventMonitor = (*Worker)(nil)

const (
	maxRetries  = 10
	readTimeout = 60 * time.Second
	dialTimeout = 10 * time.Second
)

// poolEvent is one entry of the exchange's event stream. Only the fields
// we log are decoded; everything else passes through untouched.
type poolEvent struct {
	Type      string `json:"type"` // pool_created, swap, withdraw
	PoolID    string `json:"pool_id"`
	Token     string `json:"token"`
	Amount    string `json:"amount,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Worker observes the exchange's websocket event feed. The workflow chain
// is fire and forget, so this stream is the only place stage outcomes
// become visible; events are logged, never acted on.
type Worker struct {
	wsURL      string
	exchangeID string

	conn      *websocket.Conn
	mu        sync.RWMutex
	writeMu   sync.Mutex
	connected bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewWorker creates a monitor for the given exchange contract.
func NewWorker(wsURL, exchangeID string) *Worker {
	return &Worker{
		wsURL:      wsURL,
		exchangeID: exchangeID,
	}
}

// Connect starts the connection loop in the background.
func (w *Worker) Connect(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.connectionLoop(ctx)
	return nil
}

func (w *Worker) connectionLoop(ctx context.Context) {
	defer w.wg.Done()
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := w.connect(ctx); err != nil {
			slog.Warn("Exchange feed connection failed", slog.Any("error", err), slog.Int("retry", retryCount))
			delay := infra.CalculateBackoff(retryCount)
			retryCount++
			if retryCount > maxRetries {
				retryCount = 0
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		} else {
			retryCount = 0
			w.readLoop(ctx)
		}
	}
}

func (w *Worker) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, w.wsURL, make(http.Header))
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.mu.Unlock()
	infra.GlobalMetrics.SetMonitorConnected(true)

	if err := w.subscribe(); err != nil {
		w.closeConnection()
		return err
	}

	slog.Info("Exchange feed connected", slog.String("contract", w.exchangeID))
	return nil
}

func (w *Worker) subscribe() error {
	msg := map[string]interface{}{
		"type":     "subscribe",
		"contract": w.exchangeID,
		"events":   []string{"pool_created", "swap", "withdraw"},
	}
	b, _ := json.Marshal(msg)
	return w.threadSafeWrite(websocket.TextMessage, b)
}

func (w *Worker) threadSafeWrite(msgType int, data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.conn == nil {
		return fmt.Errorf("no conn")
	}
	return w.conn.WriteMessage(msgType, data)
}

func (w *Worker) readLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.mu.RLock()
		if w.conn == nil {
			w.mu.RUnlock()
			return
		}
		w.conn.SetReadDeadline(time.Now().Add(readTimeout))
		w.mu.RUnlock()

		_, msg, err := w.conn.ReadMessage()
		if err != nil {
			w.closeConnection()
			return
		}
		w.handleMessage(msg)
	}
}

func (w *Worker) handleMessage(msg []byte) {
	var ev poolEvent
	if json.Unmarshal(msg, &ev) != nil || ev.Type == "" {
		return
	}

	slog.Info("Exchange event",
		slog.String("type", ev.Type),
		slog.String("pool", ev.PoolID),
		slog.String("token", ev.Token),
		slog.String("amount", ev.Amount))
}

func (w *Worker) closeConnection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	w.connected = false
	infra.GlobalMetrics.SetMonitorConnected(false)
}

// Disconnect stops the loop and closes the connection.
func (w *Worker) Disconnect() {
	if w.cancel != nil {
		w.cancel()
	}
	w.closeConnection()
	w.wg.Wait()
}

// IsConnected reports the current connection state.
func (w *Worker) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

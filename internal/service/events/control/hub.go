package control

import (
	"FloatTranslator/internal/service/visibility"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	clientBuffer = 16
	writeWait    = 5 * time.Second
)

// Message переход видимости в ленте /ws.
type Message struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Event string    `json:"event"`
	At    time.Time `json:"at"`
}

func newMessage(t visibility.Transition) Message {
	return Message{From: t.From.String(), To: t.To.String(), Event: t.Event.String(), At: t.At}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// hub рассылает переходы подписчикам. Медленный подписчик отключается, а не тормозит координатор.
type hub struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func newHub(logger *zap.SugaredLogger) *hub {
	return &hub{logger: logger, clients: make(map[*client]struct{})}
}

func (h *hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) broadcast(m Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		h.logger.Warnw("Failed to encode transition", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warnw("WebSocket subscriber too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}

// writeLoop единственный писатель в соединение.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(writeWait))
}

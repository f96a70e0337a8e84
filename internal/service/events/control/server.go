package control

import (
	"FloatTranslator/internal/config"
	"FloatTranslator/internal/service/events"
	"FloatTranslator/internal/service/visibility"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var _ events.EventServer = (*Server)(nil)

const maxEventBody = 4 << 10

// Poster принимает события видимости (visibility.Coordinator).
type Poster interface {
	Post(ev visibility.Event) bool
}

// Server локальный сервер управления: POST /event и лента переходов GET /ws.
type Server struct {
	cfg     config.ControlServerConfig
	poster  Poster
	srv     *http.Server
	hub     *hub
	up      websocket.Upgrader
	logger  *zap.SugaredLogger
	running atomic.Bool
	addr    atomic.Value // фактический адрес после Listen
}

type eventRequest struct {
	Event string `json:"event"`
}

func New(cfg config.ControlServerConfig, poster Poster, logger *zap.SugaredLogger) *Server {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:3917"
	}
	s := &Server{cfg: cfg, poster: poster, hub: newHub(logger), logger: logger}
	s.up = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Лента только для локальных клиентов, Origin браузера не проверяем
		CheckOrigin: func(*http.Request) bool { return true },
	}
	s.srv = &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.addr.Store(cfg.BindAddr)
	return s
}

// Handler маршруты сервера; отдельно для тестов через httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/event", s.authorized(s.handleEvent))
	mux.HandleFunc("/ws", s.authorized(s.handleWS))
	return mux
}

func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	ln, err := net.Listen("tcp", s.cfg.BindAddr)
	if err != nil {
		s.running.Store(false)
		return err
	}
	s.addr.Store(ln.Addr().String())

	go func() {
		s.logger.Infow("Control server listening", "addr", s.Addr())
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) && err != nil {
			s.logger.Errorw("Control server stopped with error", "error", err)
		} else {
			s.logger.Infow("Control server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	// Hijacked-соединения Shutdown не закрывает
	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("control server shutdown timeout"))
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		return s.srv.Close()
	}
	return nil
}

func (s *Server) Addr() string { return s.addr.Load().(string) }

// Publish отправляет переход подписчикам /ws. Не блокируется, можно вешать на Coordinator.OnTransition.
func (s *Server) Publish(t visibility.Transition) {
	s.hub.broadcast(newMessage(t))
}

func (s *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	if s.cfg.AuthToken == "" {
		return next
	}
	want := []byte("Bearer " + s.cfg.AuthToken)
	return func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("Authorization"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed; use POST", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req eventRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxEventBody)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	ev, err := visibility.ParseEvent(req.Event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Infow("Control event received", "event", ev.String(), "remote", r.RemoteAddr, "ua", r.Header.Get("User-Agent"))
	if !s.poster.Post(ev) {
		http.Error(w, "event not accepted", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		http.Error(w, "websocket upgrade required", http.StatusUpgradeRequired)
		return
	}
	conn, err := s.up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	c := s.hub.add(conn)
	s.logger.Infow("WebSocket subscriber connected", "remote", conn.RemoteAddr().String(), "subscribers", s.hub.count())
	go c.writeLoop()

	// Входящие сообщения не ожидаются; чтение нужно, чтобы заметить закрытие
	go func() {
		defer s.hub.remove(c)
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.logger.Infow("WebSocket subscriber disconnected", "remote", conn.RemoteAddr().String())
				return
			}
		}
	}()
}

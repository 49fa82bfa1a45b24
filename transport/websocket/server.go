package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	MakeTurn(ctx context.Context, id string, cell int) (usecase.Turn, error)
	Reset(ctx context.Context, id string) (usecase.Turn, error)
	SwitchMode(ctx context.Context, id string) (usecase.Turn, error)

	Subscribe(id string, listener usecase.Listener) func()
}

type handlerFunc func(ctx context.Context, client *client, message *Message) error

type Server struct {
	logger *slog.Logger
	games  gameManager

	handlers map[string]handlerFunc
}

// client is one websocket connection, bound to at most one session at a time.
// sessionID and unsubscribe are only touched by the connection's read loop.
type client struct {
	conn *websocket.Conn
	ctx  context.Context

	sessionID   string
	unsubscribe func()
}

func New(logger *slog.Logger, games gameManager) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameMode] = server.handleGameMode

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}

	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	c := &client{conn: conn, ctx: r.Context()}
	defer c.release()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(r.Context(), c); err != nil {
		log.Error("error handling messages", "error", err)
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Info("client disconnected", "sessionID", c.sessionID)
				return nil
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// bind - attaches the client to a session so it receives every update of it, AI moves included.
func (that *Server) bind(c *client, sessionID string) {
	if c.sessionID == sessionID {
		return
	}

	c.release()

	c.sessionID = sessionID
	c.unsubscribe = that.games.Subscribe(sessionID, func(turn usecase.Turn) {
		if err := that.sendTurn(c, turn); err != nil {
			that.logger.Error("failed to push game update", "sessionID", sessionID, "error", err)
		}
	})
}

func (that *client) release() {
	if that.unsubscribe != nil {
		that.unsubscribe()
		that.unsubscribe = nil
	}

	that.sessionID = ""
}

// send - writes one response. The connection allows concurrent writers, listeners call it from other goroutines.
func (that *client) send(action string, payload ResponsePayload) error {
	ctx, cancel := context.WithTimeout(that.ctx, writeTimeout)
	defer cancel()

	if err := wsjson.Write(ctx, that.conn, Response{Action: action, Payload: payload}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-engine/transport/view"
)

const maxBodyBytes = 1 << 10

type gameManager interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	MakeTurn(ctx context.Context, id string, cell int) (usecase.Turn, error)
	Reset(ctx context.Context, id string) (usecase.Turn, error)
	SwitchMode(ctx context.Context, id string) (usecase.Turn, error)
	EndSession(ctx context.Context, id string) error
}

type SessionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Move(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
	SwitchMode(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type sessionHandler struct {
	logger *slog.Logger
	games  gameManager
}

func NewSessionHandler(logger *slog.Logger, games gameManager) SessionHandler {
	return &sessionHandler{
		logger: logger.With("component", "rest"),
		games:  games,
	}
}

func (that *sessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Create")

	session, err := that.games.NewSession(r.Context())
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.NewSession(*session))
}

func (that *sessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Get")

	session, err := that.games.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewSession(*session))
}

func (that *sessionHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := that.logger.With("method", "Move", "sessionID", id)

	var req moveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Debug("failed to decode move", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Cell == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	turn, err := that.games.MakeTurn(r.Context(), id, *req.Cell)
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewTurn(turn))
}

func (that *sessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Reset")

	turn, err := that.games.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewSession(turn.Session))
}

func (that *sessionHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SwitchMode")

	turn, err := that.games.SwitchMode(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, view.NewSession(turn.Session))
}

func (that *sessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Delete")

	if err := that.games.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *sessionHandler) writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidCell):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

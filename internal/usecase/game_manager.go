package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	DefaultAIDelay = 500 * time.Millisecond

	aiMoveTimeout = 5 * time.Second
)

type Event string

const (
	EventNone       Event = "none"
	EventMove       Event = "move"
	EventWin        Event = "win"
	EventDraw       Event = "draw"
	EventReset      Event = "reset"
	EventModeSwitch Event = "mode"
)

// Turn is the result of one request against a session.
// Accepted is false when the request was ignored; Session is then the unchanged session.
type Turn struct {
	Session  entity.Session
	Accepted bool
	Event    Event
}

// Listener receives every transition of a subscribed session, including AI moves.
// It runs with the session locked, so transitions arrive in commit order. A listener
// must not call back into the manager for the same session.
type Listener func(turn Turn)

type sessionRepoDep interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type botServiceDep interface {
	SelectMove(board entity.Board) (int, error)
}

type schedulerDep interface {
	Schedule(delay time.Duration, fn func()) service.CancelFunc
}

type Options struct {
	DefaultMode entity.Mode
	AIMark      entity.Mark
	AIDelay     time.Duration
}

// sessionLock serializes transitions of one session. refs counts holders and
// waiters; the entry leaves the map when it drops to zero.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type pendingMove struct {
	token  uint64
	cancel service.CancelFunc
}

type GameManager interface {
	NewSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)

	MakeTurn(ctx context.Context, id string, cell int) (Turn, error)
	Reset(ctx context.Context, id string) (Turn, error)
	SwitchMode(ctx context.Context, id string) (Turn, error)
	EndSession(ctx context.Context, id string) error

	Subscribe(id string, listener Listener) func()
}

type gameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepoDep
	bot         botServiceDep
	scheduler   schedulerDep
	opts        Options
	now         func() time.Time

	mu           sync.Mutex
	locks        map[string]*sessionLock
	pending      map[string]pendingMove
	listeners    map[string]map[uint64]Listener
	nextToken    uint64
	nextListener uint64
}

func NewGameManager(logger *slog.Logger, sessionRepo sessionRepoDep, bot botServiceDep, scheduler schedulerDep, opts Options) GameManager {
	if opts.DefaultMode == "" {
		opts.DefaultMode = entity.ModeTwoPlayer
	}

	if !opts.AIMark.IsPlayer() {
		opts.AIMark = entity.PlayerO
	}

	return &gameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		bot:         bot,
		scheduler:   scheduler,
		opts:        opts,
		now:         time.Now,

		locks:     make(map[string]*sessionLock),
		pending:   make(map[string]pendingMove),
		listeners: make(map[string]map[uint64]Listener),
	}
}

// NewSession - creates a session holding a fresh game in the default mode.
func (that *gameManager) NewSession(ctx context.Context) (*entity.Session, error) {
	session := entity.Session{
		ID:        pkg.GenerateSessionID(),
		State:     tictactoe.NewGame(that.opts.DefaultMode),
		UpdatedAt: that.now(),
	}

	defer that.lockSession(session.ID)()

	if err := that.sessionRepo.CreateOrUpdate(ctx, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "sessionID", session.ID, "mode", session.State.Mode)

	that.scheduleAIMove(session)

	return &session, nil
}

func (that *gameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeTurn - plays cell for the current mover of the session.
// Occupied cells, finished games and, in single player mode, requests made
// while the AI is to move are ignored and reported with Accepted false.
func (that *gameManager) MakeTurn(ctx context.Context, id string, cell int) (Turn, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", id, "cell", cell)

	if cell < 0 || cell >= len(entity.Board{}) {
		return Turn{}, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	defer that.lockSession(id)()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return Turn{}, err
	}

	if that.isAITurn(session.State) || !tictactoe.IsLegalMove(session.State, cell) {
		log.Debug("move ignored")

		return Turn{Session: *session, Accepted: false, Event: EventNone}, nil
	}

	turn, err := that.commit(ctx, *session, tictactoe.ApplyMove(session.State, cell), eventFor)
	if err != nil {
		return Turn{}, err
	}

	that.scheduleAIMove(turn.Session)

	log.Info("move applied", "event", turn.Event)
	that.notify(turn)

	return turn, nil
}

// Reset - clears the board, keeping mode and scores. A pending AI move is dropped.
func (that *gameManager) Reset(ctx context.Context, id string) (Turn, error) {
	return that.restart(ctx, id, tictactoe.ResetBoard, EventReset)
}

// SwitchMode - toggles between single and two player mode and clears the board.
func (that *gameManager) SwitchMode(ctx context.Context, id string) (Turn, error) {
	return that.restart(ctx, id, tictactoe.SwitchMode, EventModeSwitch)
}

// EndSession - deletes the session and forgets its pending AI move and listeners.
// Callers already waiting on the session lock run after it and find no session.
func (that *gameManager) EndSession(ctx context.Context, id string) error {
	defer that.lockSession(id)()

	that.cancelAIMove(id)

	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.mu.Lock()
	delete(that.listeners, id)
	that.mu.Unlock()

	that.logger.Info("session ended", "sessionID", id)

	return nil
}

// Subscribe - registers listener for transitions of the session. Call the returned func to stop.
func (that *gameManager) Subscribe(id string, listener Listener) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.nextListener++
	key := that.nextListener

	if that.listeners[id] == nil {
		that.listeners[id] = make(map[uint64]Listener)
	}
	that.listeners[id][key] = listener

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		delete(that.listeners[id], key)
		if len(that.listeners[id]) == 0 {
			delete(that.listeners, id)
		}
	}
}

func (that *gameManager) restart(ctx context.Context, id string, transition func(entity.GameState) entity.GameState, event Event) (Turn, error) {
	defer that.lockSession(id)()

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return Turn{}, err
	}

	that.cancelAIMove(id)

	turn, err := that.commit(ctx, *session, transition(session.State), func(entity.GameState) Event { return event })
	if err != nil {
		return Turn{}, err
	}

	that.scheduleAIMove(turn.Session)

	that.logger.Info("board reset", "sessionID", id, "event", event, "mode", turn.Session.State.Mode)
	that.notify(turn)

	return turn, nil
}

// playAIMove runs on the scheduler goroutine. token identifies the schedule
// call so that moves cancelled by a reset are dropped even if already fired.
func (that *gameManager) playAIMove(id string, token uint64) {
	log := that.logger.With("method", "playAIMove", "sessionID", id)

	ctx, cancel := context.WithTimeout(context.Background(), aiMoveTimeout)
	defer cancel()

	defer that.lockSession(id)()

	if !that.takePending(id, token) {
		log.Debug("stale AI move dropped")
		return
	}

	session, err := that.GetSession(ctx, id)
	if err != nil {
		log.Error("failed to load session for AI move", "error", err)
		return
	}

	if !that.isAITurn(session.State) {
		log.Debug("AI move no longer needed")
		return
	}

	cell, err := that.bot.SelectMove(session.State.Board)
	if err != nil {
		log.Error("bot failed to select a move", "error", err)
		return
	}

	turn, err := that.commit(ctx, *session, tictactoe.ApplyMove(session.State, cell), eventFor)
	if err != nil {
		log.Error("failed to store AI move", "error", err)
		return
	}

	log.Info("AI move applied", "cell", cell, "event", turn.Event)
	that.notify(turn)
}

func (that *gameManager) commit(ctx context.Context, session entity.Session, next entity.GameState, event func(entity.GameState) Event) (Turn, error) {
	updated := session.WithState(next, that.now())

	if err := that.sessionRepo.CreateOrUpdate(ctx, &updated); err != nil {
		return Turn{}, fmt.Errorf("failed to update session: %w", err)
	}

	return Turn{Session: updated, Accepted: true, Event: event(next)}, nil
}

func (that *gameManager) isAITurn(state entity.GameState) bool {
	return state.Mode == entity.ModeSingle && state.IsOngoing() && state.CurrentMover == that.opts.AIMark
}

// scheduleAIMove must be called with the session lock held.
func (that *gameManager) scheduleAIMove(session entity.Session) {
	if !that.isAITurn(session.State) {
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if previous, ok := that.pending[session.ID]; ok {
		previous.cancel()
	}

	that.nextToken++
	token := that.nextToken
	id := session.ID

	that.pending[id] = pendingMove{
		token:  token,
		cancel: that.scheduler.Schedule(that.opts.AIDelay, func() { that.playAIMove(id, token) }),
	}
}

// cancelAIMove must be called with the session lock held.
func (that *gameManager) cancelAIMove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if previous, ok := that.pending[id]; ok {
		previous.cancel()
		delete(that.pending, id)
	}
}

func (that *gameManager) takePending(id string, token uint64) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	current, ok := that.pending[id]
	if !ok || current.token != token {
		return false
	}

	delete(that.pending, id)

	return true
}

func (that *gameManager) notify(turn Turn) {
	that.mu.Lock()
	listeners := make([]Listener, 0, len(that.listeners[turn.Session.ID]))
	for _, listener := range that.listeners[turn.Session.ID] {
		listeners = append(listeners, listener)
	}
	that.mu.Unlock()

	for _, listener := range listeners {
		listener(turn)
	}
}

// lockSession blocks until the session lock for id is held and returns its release func.
func (that *gameManager) lockSession(id string) func() {
	that.mu.Lock()
	lock, ok := that.locks[id]
	if !ok {
		lock = &sessionLock{}
		that.locks[id] = lock
	}
	lock.refs++
	that.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.mu.Lock()
		defer that.mu.Unlock()

		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, id)
		}
	}
}

func eventFor(state entity.GameState) Event {
	switch {
	case state.Outcome.IsWin():
		return EventWin
	case state.Outcome == entity.OutcomeDraw:
		return EventDraw
	default:
		return EventMove
	}
}

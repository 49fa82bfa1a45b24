package service

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type BotService interface {
	SelectMove(board entity.Board) (int, error)
}

// botService plays a uniformly random empty cell. It has no strategy.
type botService struct {
	next tictactoe.IndexSource
}

func NewBotService(next tictactoe.IndexSource) BotService {
	return &botService{
		next: next,
	}
}

func (that *botService) SelectMove(board entity.Board) (int, error) {
	cell, ok := tictactoe.SelectAiMove(board, that.next)
	if !ok {
		return -1, apperror.ErrNoAvailableMoves
	}

	return cell, nil
}

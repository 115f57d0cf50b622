package entity

import (
	"fmt"

	"github.com/rocketscienceinc/mnk-tictactoe/internal/apperror"
	"github.com/rocketscienceinc/mnk-tictactoe/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

const (
	WithBotType  = "bot"
	SelfPlayType = "selfplay"
)

// Move is one ply of a stored game.
type Move struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Mark string `json:"mark"`
}

// Game is the persisted record of a game. The board itself is not stored;
// it is rebuilt by replaying Moves through the rules engine.
type Game struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Size      int    `json:"size"`
	WinLength int    `json:"win_length"`
	HumanMark string `json:"human_mark,omitempty"`
	Moves     []Move `json:"moves"`
	Winner    string `json:"winner"`
	Status    string `json:"status"`
}

func NewGame(id, gameType string, size, winLength int) *Game {
	return &Game{
		ID:        id,
		Type:      gameType,
		Size:      size,
		WinLength: winLength,
		Moves:     []Move{},
		Status:    StatusOngoing,
	}
}

// Positions replays the record and returns every position from the empty
// board to the current one.
func (that *Game) Positions() ([]tictactoe.State, error) {
	state, err := tictactoe.New(that.Size, that.WinLength)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", that.ID, err)
	}

	positions := make([]tictactoe.State, 0, len(that.Moves)+1)
	positions = append(positions, state)

	for i, move := range that.Moves {
		if move.Mark != state.ToMove().String() {
			return nil, fmt.Errorf("%w: move %d of game %s is marked %q but %s is to move",
				apperror.ErrIllegalMove, i+1, that.ID, move.Mark, state.ToMove())
		}

		state, err = tictactoe.Result(state, tictactoe.Action{Row: move.Row, Col: move.Col})
		if err != nil {
			return nil, fmt.Errorf("move %d of game %s: %w", i+1, that.ID, err)
		}

		positions = append(positions, state)
	}

	return positions, nil
}

// Replay returns the current position of the game.
func (that *Game) Replay() (tictactoe.State, error) {
	positions, err := that.Positions()
	if err != nil {
		return tictactoe.State{}, err
	}

	return positions[len(positions)-1], nil
}

// AddMove appends the move that led to next and refreshes the status.
func (that *Game) AddMove(action tictactoe.Action, mark tictactoe.Mark, next tictactoe.State) {
	that.Moves = append(that.Moves, Move{Row: action.Row, Col: action.Col, Mark: mark.String()})
	that.UpdateGameState(next)
}

func (that *Game) UpdateGameState(state tictactoe.State) {
	if winner, ok := tictactoe.Winner(state); ok {
		that.Winner = winner.String()
		that.Status = StatusFinished

		return
	}

	// the game will continue until all the squares are full
	if tictactoe.Terminal(state) {
		that.Winner = PlayerTie
		that.Status = StatusFinished

		return
	}

	that.Status = StatusOngoing
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("unknown game status: %s", that.Status)
	}
}

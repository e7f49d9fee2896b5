package game

import "errors"

var (
	ErrRoomExists            = errors.New("room already exists")
	ErrRoomNotFound          = errors.New("room not found")
	ErrRoomFull              = errors.New("room is full")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrNotEnoughPlayers      = errors.New("not enough players to start")
	ErrIllegalPhase          = errors.New("operation not allowed in current phase")
	ErrNotYourTurn           = errors.New("not your turn - you must have 2 cards to pass")
	ErrCardNotFound          = errors.New("card not found")
	ErrCallerIsDeclarant     = errors.New("cannot call bluff on your own declaration")
	ErrNoDeclaration         = errors.New("no declaration found")
	ErrInsufficientCardTypes = errors.New("not enough card types available")
	ErrNoNamesAvailable      = errors.New("no computer player names available")
)

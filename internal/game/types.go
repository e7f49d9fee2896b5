package game

type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseMemorizing Phase = "memorizing"
	PhasePlaying    Phase = "playing"
	PhaseRoundEnd   Phase = "round_end"
	PhaseGameOver   Phase = "game_over"
)

type Arrow string

const (
	ArrowLeft  Arrow = "left"
	ArrowRight Arrow = "right"
)

// Card is created at deal time and owned by exactly one hand. The arrow alone
// determines which neighbour receives it when passed.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IconName string `json:"iconName"`
	Arrow    Arrow  `json:"arrow"`
}

// Player's Position is assigned once at join time and defines the fixed ring
// order; it is never reassigned.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Cards      []Card `json:"cards"`
	IsReady    bool   `json:"isReady"`
	Score      int    `json:"score"`
	IsHost     bool   `json:"isHost"`
	Position   int    `json:"position"`
	IsComputer bool   `json:"isComputer"`
}

// BluffResult is shown to all clients for a fixed window after a bluff call,
// then Show flips to false while the other fields are retained.
type BluffResult struct {
	Show          bool   `json:"show"`
	Message       string `json:"message"`
	IsCorrectCall bool   `json:"isCorrectCall"`
	CallerName    string `json:"callerName"`
	TargetName    string `json:"targetName"`
	ActualCard    string `json:"actualCard"`
	DeclaredCard  string `json:"declaredCard"`
}

type MessageKind string

const (
	MessageChat        MessageKind = "chat"
	MessageSystem      MessageKind = "system"
	MessageDeclaration MessageKind = "declaration"
)

// ChatMessage entries are append-only and ordered by timestamp. A declaration
// entry carries the claimed card name in DeclaredName; the Message text is a
// display artifact only and is never parsed.
type ChatMessage struct {
	ID           string      `json:"id"`
	PlayerID     string      `json:"playerId"`
	PlayerName   string      `json:"playerName"`
	Message      string      `json:"message"`
	DeclaredName string      `json:"declaredName,omitempty"`
	Timestamp    int64       `json:"timestamp"`
	Kind         MessageKind `json:"type"`
}

// Snapshot is the full room state pushed to subscribers and persisted to the
// store. Player hands are deep copies.
type Snapshot struct {
	ID           string             `json:"id"`
	Players      map[string]*Player `json:"players"`
	Phase        Phase              `json:"gameState"`
	CurrentTurn  string             `json:"currentTurn"`
	CurrentRound int                `json:"currentRound"`
	MaxPlayers   int                `json:"maxPlayers"`
	MinPlayers   int                `json:"minPlayers"`
	CreatedAt    int64              `json:"createdAt"`
	CardsVisible bool               `json:"cardsVisible"`
	BluffResult  *BluffResult       `json:"bluffResult,omitempty"`
}

package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	MaxPlayers = 10
	MinPlayers = 3

	// DefaultResetDelay is how long the bluff result banner stays up before
	// the next round is dealt.
	DefaultResetDelay = 5 * time.Second
)

var botNames = []string{
	"Ace", "Bandit", "Chip", "Dealer", "Echo",
	"Fox", "Gizmo", "Huxley", "Ivy", "Joker",
}

// Store is the external durable document store plus append-only message log.
// Room snapshots are written last-writer-wins; chat messages are append-only.
type Store interface {
	SaveRoom(snap *Snapshot) error
	AppendMessage(roomID string, msg ChatMessage) error
	LoadRooms() ([]*Snapshot, error)
	Messages(roomID string) ([]ChatMessage, error)
}

type Room struct {
	mu sync.Mutex

	id           string
	players      map[string]*Player
	phase        Phase
	currentTurn  string // seeds the next deal; during playing the turn is derived
	currentRound int
	createdAt    int64
	cardsVisible bool
	bluffResult  *BluffResult

	messages    []ChatMessage
	unpersisted []ChatMessage

	rng        *rand.Rand
	store      Store
	resetDelay time.Duration
	resetTimer *time.Timer

	nextSubID int
	roomSubs  map[int]func(*Snapshot)
	chatSubs  map[int]func([]ChatMessage)
}

type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	store Store

	// ResetDelay applies to rooms created afterwards. Tests shorten it.
	ResetDelay time.Duration
}

// NewRoomManager creates a manager. store may be nil, in which case rooms
// live in memory only.
func NewRoomManager(store Store) *RoomManager {
	return &RoomManager{
		rooms:      make(map[string]*Room),
		store:      store,
		ResetDelay: DefaultResetDelay,
	}
}

func (rm *RoomManager) newRoom(roomID string) *Room {
	return &Room{
		id:           roomID,
		players:      make(map[string]*Player),
		phase:        PhaseWaiting,
		createdAt:    nowMillis(),
		cardsVisible: true,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		store:        rm.store,
		resetDelay:   rm.ResetDelay,
		roomSubs:     make(map[int]func(*Snapshot)),
		chatSubs:     make(map[int]func([]ChatMessage)),
	}
}

// CreateRoom registers a new room with the given host as the only player at
// position 0.
func (rm *RoomManager) CreateRoom(roomID, hostID, hostName string) (*Room, error) {
	rm.mu.Lock()
	if rm.rooms[roomID] != nil {
		rm.mu.Unlock()
		return nil, ErrRoomExists
	}
	r := rm.newRoom(roomID)
	rm.rooms[roomID] = r
	rm.mu.Unlock()

	err := r.update(func() error {
		r.players[hostID] = &Player{
			ID:       hostID,
			Name:     hostName,
			Cards:    []Card{},
			IsHost:   true,
			Position: 0,
		}
		r.systemMessageLocked(hostName + " created the room")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Get returns the room or ErrRoomNotFound.
func (rm *RoomManager) Get(roomID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[roomID]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Rooms returns all known room ids.
func (rm *RoomManager) Rooms() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	ids := make([]string, 0, len(rm.rooms))
	for id := range rm.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Restore loads previously persisted rooms and their chat history from the
// store. Pending round resets do not survive a restart: a bluff result still
// marked visible is flipped hidden so the round stays playable.
func (rm *RoomManager) Restore() error {
	if rm.store == nil {
		return nil
	}
	snaps, err := rm.store.LoadRooms()
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		r := rm.newRoom(snap.ID)
		r.players = snap.Players
		r.phase = snap.Phase
		r.currentTurn = snap.CurrentTurn
		r.currentRound = snap.CurrentRound
		r.createdAt = snap.CreatedAt
		r.cardsVisible = snap.CardsVisible
		r.bluffResult = snap.BluffResult
		if r.bluffResult != nil {
			r.bluffResult.Show = false
		}
		msgs, err := rm.store.Messages(snap.ID)
		if err != nil {
			return err
		}
		r.messages = msgs

		rm.mu.Lock()
		rm.rooms[snap.ID] = r
		rm.mu.Unlock()
	}
	return nil
}

// update runs fn under the room lock, and on success pushes the new snapshot
// and chat list to subscribers and writes through to the store. Validation
// failures leave the room untouched.
func (r *Room) update(fn func() error) error {
	r.mu.Lock()
	if err := fn(); err != nil {
		r.mu.Unlock()
		return err
	}
	snap := r.snapshotLocked()
	msgs := append([]ChatMessage(nil), r.messages...)
	fresh := r.unpersisted
	r.unpersisted = nil
	roomSubs := make([]func(*Snapshot), 0, len(r.roomSubs))
	for _, sub := range r.roomSubs {
		roomSubs = append(roomSubs, sub)
	}
	chatSubs := make([]func([]ChatMessage), 0, len(r.chatSubs))
	for _, sub := range r.chatSubs {
		chatSubs = append(chatSubs, sub)
	}
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveRoom(snap); err != nil {
			log.Error().Err(err).Str("room", r.id).Msg("persist room")
		}
		for _, msg := range fresh {
			if err := r.store.AppendMessage(r.id, msg); err != nil {
				log.Error().Err(err).Str("room", r.id).Msg("persist message")
			}
		}
	}
	for _, sub := range roomSubs {
		sub(snap)
	}
	if len(fresh) > 0 {
		for _, sub := range chatSubs {
			sub(msgs)
		}
	}
	return nil
}

// SubscribeToRoom registers a callback receiving the full room snapshot after
// every mutation, starting with the current state. Returns an unsubscribe
// function.
func (r *Room) SubscribeToRoom(fn func(*Snapshot)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.roomSubs[id] = fn
	snap := r.snapshotLocked()
	r.mu.Unlock()

	fn(snap)
	return func() {
		r.mu.Lock()
		delete(r.roomSubs, id)
		r.mu.Unlock()
	}
}

// SubscribeToChat registers a callback receiving the full timestamp-ordered
// message list after every append, starting with the current list.
func (r *Room) SubscribeToChat(fn func([]ChatMessage)) func() {
	r.mu.Lock()
	id := r.nextSubID
	r.nextSubID++
	r.chatSubs[id] = fn
	msgs := append([]ChatMessage(nil), r.messages...)
	r.mu.Unlock()

	fn(msgs)
	return func() {
		r.mu.Lock()
		delete(r.chatSubs, id)
		r.mu.Unlock()
	}
}

// Join adds a human player at the next ring position. Joining again with a
// known id is a no-op. Mid-game joins are accepted but the latecomer gets no
// cards until the next deal.
func (r *Room) Join(playerID, name string) error {
	return r.update(func() error {
		if r.players[playerID] != nil {
			return nil
		}
		if len(r.players) >= MaxPlayers {
			return ErrRoomFull
		}
		r.players[playerID] = &Player{
			ID:       playerID,
			Name:     name,
			Cards:    []Card{},
			Position: r.nextPositionLocked(),
		}
		r.systemMessageLocked(name + " joined the room")
		return nil
	})
}

// AddComputerPlayer seats a synthetic player with an unused name from the
// fixed pool. Computer players join already ready.
func (r *Room) AddComputerPlayer() error {
	return r.update(func() error {
		if r.phase != PhaseWaiting {
			return ErrIllegalPhase
		}
		if len(r.players) >= MaxPlayers {
			return ErrRoomFull
		}
		used := make(map[string]bool, len(r.players))
		for _, p := range r.players {
			used[p.Name] = true
		}
		available := make([]string, 0, len(botNames))
		for _, name := range botNames {
			if !used[name] {
				available = append(available, name)
			}
		}
		if len(available) == 0 {
			return ErrNoNamesAvailable
		}
		id := uuid.NewString()
		r.players[id] = &Player{
			ID:         id,
			Name:       available[r.rng.Intn(len(available))],
			Cards:      []Card{},
			IsReady:    true,
			Position:   r.nextPositionLocked(),
			IsComputer: true,
		}
		r.systemMessageLocked(r.players[id].Name + " (computer) joined the room")
		return nil
	})
}

func (r *Room) nextPositionLocked() int {
	next := 0
	for _, p := range r.players {
		if p.Position >= next {
			next = p.Position + 1
		}
	}
	return next
}

func (r *Room) systemMessageLocked(text string) {
	r.appendMessageLocked(ChatMessage{
		ID:         uuid.NewString(),
		PlayerID:   "system",
		PlayerName: "System",
		Message:    text,
		Timestamp:  nowMillis(),
		Kind:       MessageSystem,
	})
}

func (r *Room) appendMessageLocked(msg ChatMessage) {
	r.messages = append(r.messages, msg)
	r.unpersisted = append(r.unpersisted, msg)
}

// AddChatMessage appends a free-form chat entry from a player.
func (r *Room) AddChatMessage(playerID, text string) error {
	return r.update(func() error {
		p := r.players[playerID]
		if p == nil {
			return ErrPlayerNotFound
		}
		r.appendMessageLocked(ChatMessage{
			ID:         uuid.NewString(),
			PlayerID:   playerID,
			PlayerName: p.Name,
			Message:    text,
			Timestamp:  nowMillis(),
			Kind:       MessageChat,
		})
		return nil
	})
}

// Messages returns a copy of the chat log ordered by timestamp.
func (r *Room) Messages() []ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChatMessage(nil), r.messages...)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ID returns the room id.
func (r *Room) ID() string {
	return r.id
}

// Snapshot returns a deep copy of the current room state. During the playing
// phase CurrentTurn is computed as whoever holds two cards rather than read
// from the stored field.
func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *Snapshot {
	players := make(map[string]*Player, len(r.players))
	for id, p := range r.players {
		cp := *p
		cp.Cards = append([]Card(nil), p.Cards...)
		players[id] = &cp
	}
	turn := r.currentTurn
	if r.phase == PhasePlaying {
		turn = ""
		if active := r.activePlayerLocked(); active != nil {
			turn = active.ID
		}
	}
	var res *BluffResult
	if r.bluffResult != nil {
		cp := *r.bluffResult
		res = &cp
	}
	return &Snapshot{
		ID:           r.id,
		Players:      players,
		Phase:        r.phase,
		CurrentTurn:  turn,
		CurrentRound: r.currentRound,
		MaxPlayers:   MaxPlayers,
		MinPlayers:   MinPlayers,
		CreatedAt:    r.createdAt,
		CardsVisible: r.cardsVisible,
		BluffResult:  res,
	}
}

// ActivePlayer returns the id of the player currently holding two cards, or
// "" if there is none. This is the turn authority during the playing phase.
func (r *Room) ActivePlayer() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.activePlayerLocked(); p != nil {
		return p.ID
	}
	return ""
}

func (r *Room) activePlayerLocked() *Player {
	for _, p := range r.players {
		if len(p.Cards) == 2 {
			return p
		}
	}
	return nil
}

// ringOrderLocked returns the players sorted by ascending position, which is
// the fixed circular seating order.
func (r *Room) ringOrderLocked() []*Player {
	ring := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		ring = append(ring, p)
	}
	sort.Slice(ring, func(i, j int) bool {
		return ring[i].Position < ring[j].Position
	})
	return ring
}

func (r *Room) firstPlayerLocked() *Player {
	ring := r.ringOrderLocked()
	if len(ring) == 0 {
		return nil
	}
	return ring[0]
}

// dealLocked draws numPlayers+1 unique cards, hands one to every player and
// the extra one to firstID, making that player the active one for the round.
func (r *Room) dealLocked(firstID string) error {
	cards, err := DrawUnique(len(r.players)+1, r.rng)
	if err != nil {
		return err
	}
	i := 0
	for _, p := range r.players {
		p.Cards = []Card{cards[i]}
		p.IsReady = p.IsComputer
		i++
	}
	first := r.players[firstID]
	first.Cards = append(first.Cards, cards[i])
	r.currentTurn = firstID
	r.phase = PhaseMemorizing
	r.cardsVisible = true
	return nil
}

// Start deals the first round. Only legal from the waiting phase with at
// least MinPlayers seated. The lowest-position player receives the extra card.
func (r *Room) Start() error {
	return r.update(func() error {
		if r.phase != PhaseWaiting {
			return ErrIllegalPhase
		}
		if len(r.players) < MinPlayers {
			return ErrNotEnoughPlayers
		}
		if err := r.dealLocked(r.firstPlayerLocked().ID); err != nil {
			return err
		}
		r.systemMessageLocked("Game started! Memorize your cards and click Ready when done.")
		return nil
	})
}

// SetReady marks a player ready during memorizing. When everyone is ready the
// room transitions to playing and every hand is hidden, including the owner's
// own.
func (r *Room) SetReady(playerID string) error {
	return r.update(func() error {
		if r.phase != PhaseMemorizing {
			return ErrIllegalPhase
		}
		p := r.players[playerID]
		if p == nil {
			return ErrPlayerNotFound
		}
		p.IsReady = true
		for _, other := range r.players {
			if !other.IsReady {
				return nil
			}
		}
		r.phase = PhasePlaying
		r.cardsVisible = false
		if active := r.activePlayerLocked(); active != nil {
			r.systemMessageLocked(fmt.Sprintf("%s's turn! Choose a card to pass.", active.Name))
		}
		return nil
	})
}

// PassCard removes the named card from the actor's hand and routes it to the
// ring neighbour chosen by the card's arrow. The declared name is recorded on
// the declaration entry and need not match the true card name.
func (r *Room) PassCard(playerID, cardID, declaredName string) error {
	return r.update(func() error {
		if r.phase != PhasePlaying {
			return ErrIllegalPhase
		}
		if r.bluffResult != nil && r.bluffResult.Show {
			return ErrIllegalPhase
		}
		p := r.players[playerID]
		if p == nil {
			return ErrPlayerNotFound
		}
		if len(p.Cards) != 2 {
			return ErrNotYourTurn
		}
		idx := -1
		for i, c := range p.Cards {
			if c.ID == cardID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrCardNotFound
		}
		card := p.Cards[idx]
		p.Cards = append(p.Cards[:idx], p.Cards[idx+1:]...)

		ring := r.ringOrderLocked()
		cur := 0
		for i, rp := range ring {
			if rp.ID == playerID {
				cur = i
				break
			}
		}
		var next int
		if card.Arrow == ArrowRight {
			next = (cur + 1) % len(ring)
		} else {
			next = (cur - 1 + len(ring)) % len(ring)
		}
		dest := ring[next]

		// Front of the hand is the just-received, unresolved slot.
		dest.Cards = append([]Card{card}, dest.Cards...)

		// Safety top-up so the ring keeps moving. Skipped silently when the
		// catalog has no unused names left.
		if len(dest.Cards) < 2 {
			if fresh, ok := drawReplacement(r.inPlayNamesLocked(), r.rng); ok {
				dest.Cards = append(dest.Cards, fresh)
			}
		}

		r.appendMessageLocked(ChatMessage{
			ID:           uuid.NewString(),
			PlayerID:     playerID,
			PlayerName:   p.Name,
			Message:      fmt.Sprintf("I'm passing a %s", declaredName),
			DeclaredName: declaredName,
			Timestamp:    nowMillis(),
			Kind:         MessageDeclaration,
		})
		return nil
	})
}

func (r *Room) inPlayNamesLocked() map[string]bool {
	names := make(map[string]bool)
	for _, p := range r.players {
		for _, c := range p.Cards {
			names[c.Name] = true
		}
	}
	return names
}

func (r *Room) lastDeclarationLocked() *ChatMessage {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].Kind == MessageDeclaration {
			return &r.messages[i]
		}
	}
	return nil
}

// CallBluff judges the most recent declaration against the true identity of
// the named card in the target's hand. Exactly one score increments; the
// round winner receives the extra card when the round resets after the
// result display window.
func (r *Room) CallBluff(callerID, targetID, lastCardID string) error {
	return r.update(func() error {
		if r.phase != PhasePlaying {
			return ErrIllegalPhase
		}
		if r.bluffResult != nil && r.bluffResult.Show {
			return ErrIllegalPhase
		}
		decl := r.lastDeclarationLocked()
		if decl == nil {
			return ErrNoDeclaration
		}
		if decl.PlayerID == callerID {
			return ErrCallerIsDeclarant
		}
		caller := r.players[callerID]
		target := r.players[targetID]
		if caller == nil || target == nil {
			return ErrPlayerNotFound
		}
		var card *Card
		for i := range target.Cards {
			if target.Cards[i].ID == lastCardID {
				card = &target.Cards[i]
				break
			}
		}
		if card == nil {
			return ErrCardNotFound
		}

		isBluff := !strings.EqualFold(card.Name, decl.DeclaredName)
		var winnerID, message string
		if isBluff {
			winnerID = callerID
			caller.Score++
			message = fmt.Sprintf("%s correctly called bluff and wins the round!", caller.Name)
		} else {
			winnerID = targetID
			target.Score++
			message = fmt.Sprintf("%s was wrong! %s wins the round!", caller.Name, target.Name)
		}

		r.bluffResult = &BluffResult{
			Show:          true,
			Message:       message,
			IsCorrectCall: isBluff,
			CallerName:    caller.Name,
			TargetName:    target.Name,
			ActualCard:    card.Name,
			DeclaredCard:  decl.DeclaredName,
		}
		r.systemMessageLocked(message)
		r.scheduleResetLocked(winnerID)
		return nil
	})
}

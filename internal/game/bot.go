package game

const (
	botBluffChance = 0.30
	botCallChance  = 0.25
)

type BotAction int

const (
	BotAbstain BotAction = iota
	BotReady
	BotPass
	BotCall
)

// BotDecision is what a computer player wants to do this tick. The scheduler
// applies it through the ordinary room operations.
type BotDecision struct {
	Action       BotAction
	CardID       string
	DeclaredName string
	TargetID     string
	TargetCardID string
}

// DecideBot runs the scripted computer policy for one synthetic player
// against the current room and chat state.
//
// Holding two cards the bot always passes, picking a random card and bluffing
// about its name with probability botBluffChance. Otherwise it considers the
// most recent declaration it did not author itself and calls bluff on it with
// probability botCallChance, targeting the card at the front of the current
// two-card holder's hand (the just-received slot).
func (r *Room) DecideBot(botID string) BotDecision {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players[botID]
	if p == nil || !p.IsComputer {
		return BotDecision{}
	}

	switch r.phase {
	case PhaseMemorizing:
		if !p.IsReady {
			return BotDecision{Action: BotReady}
		}
	case PhasePlaying:
		if r.bluffResult != nil && r.bluffResult.Show {
			return BotDecision{}
		}
		if len(p.Cards) == 2 {
			card := p.Cards[r.rng.Intn(len(p.Cards))]
			declared := card.Name
			if r.rng.Float64() < botBluffChance {
				others := make([]string, 0, len(r.players)+1)
				for name := range r.inPlayNamesLocked() {
					if name != card.Name {
						others = append(others, name)
					}
				}
				if len(others) > 0 {
					declared = others[r.rng.Intn(len(others))]
				}
			}
			return BotDecision{Action: BotPass, CardID: card.ID, DeclaredName: declared}
		}
		decl := r.lastDeclarationLocked()
		if decl == nil || decl.PlayerID == botID {
			return BotDecision{}
		}
		if r.rng.Float64() >= botCallChance {
			return BotDecision{}
		}
		target := r.activePlayerLocked()
		if target == nil || target.ID == botID || len(target.Cards) == 0 {
			return BotDecision{}
		}
		return BotDecision{
			Action:       BotCall,
			TargetID:     target.ID,
			TargetCardID: target.Cards[0].ID,
		}
	}
	return BotDecision{}
}

// ComputerPlayers returns the ids of all synthetic players in the room.
func (r *Room) ComputerPlayers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.players))
	for id, p := range r.players {
		if p.IsComputer {
			ids = append(ids, id)
		}
	}
	return ids
}

package ws

import (
	"time"

	"github.com/rs/zerolog/log"

	"potakka/internal/config"
	"potakka/internal/game"
)

// runBots drives every computer player in the room once per tick while the
// room is memorizing or playing. Decisions come from the scripted policy in
// the game package and are applied through the ordinary room operations, so
// bots obey exactly the same validation as humans.
func (s *Server) runBots(room *game.Room) {
	tick := s.cfg.BotTick
	if tick <= 0 {
		tick = config.DefaultBotTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for range ticker.C {
		snap := room.Snapshot()
		if snap.Phase != game.PhaseMemorizing && snap.Phase != game.PhasePlaying {
			continue
		}
		for _, botID := range room.ComputerPlayers() {
			d := room.DecideBot(botID)
			var err error
			switch d.Action {
			case game.BotReady:
				err = room.SetReady(botID)
			case game.BotPass:
				err = room.PassCard(botID, d.CardID, d.DeclaredName)
			case game.BotCall:
				err = room.CallBluff(botID, d.TargetID, d.TargetCardID)
			default:
				continue
			}
			if err != nil {
				// Lost races (someone else moved first) are expected here.
				log.Debug().Err(err).Str("room", room.ID()).Str("bot", botID).Msg("bot action rejected")
			}
		}
	}
}

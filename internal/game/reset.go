package game

import (
	"errors"
	"fmt"
	"time"
)

var errStaleReset = errors.New("stale round reset")

// scheduleResetLocked arms the delayed round reset for the round that is
// active right now. A previously armed timer is stopped first, so at most one
// reset is pending per room.
func (r *Room) scheduleResetLocked(winnerID string) {
	round := r.currentRound
	if r.resetTimer != nil {
		r.resetTimer.Stop()
	}
	r.resetTimer = time.AfterFunc(r.resetDelay, func() {
		r.resetRound(round, winnerID)
	})
}

// resetRound redeals for the next round with the bluff winner holding the
// extra card. A reset that fires after the room has already moved on is a
// no-op; errors are swallowed since no caller is waiting on this.
func (r *Room) resetRound(round int, winnerID string) {
	_ = r.update(func() error {
		if r.phase != PhasePlaying || r.currentRound != round {
			return errStaleReset
		}
		winner := r.players[winnerID]
		if winner == nil {
			return errStaleReset
		}
		if err := r.dealLocked(winnerID); err != nil {
			return err
		}
		r.currentRound++
		if r.bluffResult != nil {
			r.bluffResult.Show = false
		}
		r.systemMessageLocked(fmt.Sprintf("New round started! %s goes first.", winner.Name))
		return nil
	})
}

package game

import (
	"fmt"
	"testing"
)

var testNames = []string{"Alice", "Bob", "Charlie", "Dana", "Eve", "Frank", "Grace", "Henry", "Iris", "Jack"}

// newTestRoom creates a room with the given number of human players. Player
// ids are p0 (the host) through p<n-1>.
func newTestRoom(t *testing.T, humans int) (*RoomManager, *Room) {
	t.Helper()
	rm := NewRoomManager(nil)
	r, err := rm.CreateRoom("room1", "p0", testNames[0])
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}
	for i := 1; i < humans; i++ {
		if err := r.Join(fmt.Sprintf("p%d", i), testNames[i]); err != nil {
			t.Fatalf("should be able to join: %v", err)
		}
	}
	return rm, r
}

func startPlaying(t *testing.T, r *Room, humans int) {
	t.Helper()
	if err := r.Start(); err != nil {
		t.Fatalf("should be able to start: %v", err)
	}
	for i := 0; i < humans; i++ {
		if err := r.SetReady(fmt.Sprintf("p%d", i)); err != nil {
			t.Fatalf("should be able to set ready: %v", err)
		}
	}
	if r.Snapshot().Phase != PhasePlaying {
		t.Fatalf("expected phase %s after everyone ready, got %s", PhasePlaying, r.Snapshot().Phase)
	}
}

func TestCreateRoom(t *testing.T) {
	rm := NewRoomManager(nil)
	r, err := rm.CreateRoom("room1", "host1", "Alice")
	if err != nil {
		t.Fatalf("should be able to create room: %v", err)
	}

	snap := r.Snapshot()
	if snap.Phase != PhaseWaiting {
		t.Fatalf("expected phase %s, got %s", PhaseWaiting, snap.Phase)
	}
	if !snap.CardsVisible {
		t.Fatal("cards should be visible in a fresh room")
	}
	host := snap.Players["host1"]
	if host == nil {
		t.Fatal("host should be seated")
	}
	if !host.IsHost || host.Position != 0 {
		t.Fatalf("host should be at position 0 with isHost set, got %+v", host)
	}

	msgs := r.Messages()
	if len(msgs) != 1 || msgs[0].Kind != MessageSystem {
		t.Fatalf("expected one system message, got %v", msgs)
	}

	if _, err := rm.CreateRoom("room1", "other", "Bob"); err != ErrRoomExists {
		t.Fatalf("expected ErrRoomExists, got %v", err)
	}
	if _, err := rm.Get("nope"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestJoinAssignsRingPositions(t *testing.T) {
	_, r := newTestRoom(t, 3)

	snap := r.Snapshot()
	positions := make(map[int]string)
	for id, p := range snap.Players {
		positions[p.Position] = id
	}
	for pos := 0; pos < 3; pos++ {
		if positions[pos] == "" {
			t.Fatalf("expected a player at position %d, got %v", pos, positions)
		}
	}

	// Joining again with a known id must not reseat the player.
	if err := r.Join("p1", "Bob"); err != nil {
		t.Fatalf("re-join should be a no-op: %v", err)
	}
	if r.Snapshot().Players["p1"].Position != 1 {
		t.Fatal("re-join must not change the position")
	}
}

func TestJoinFullRoom(t *testing.T) {
	_, r := newTestRoom(t, 10)
	if err := r.Join("p10", "Kate"); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestAddComputerPlayer(t *testing.T) {
	_, r := newTestRoom(t, 1)
	if err := r.AddComputerPlayer(); err != nil {
		t.Fatalf("should be able to add a computer player: %v", err)
	}

	snap := r.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
	var bot *Player
	for _, p := range snap.Players {
		if p.IsComputer {
			bot = p
		}
	}
	if bot == nil {
		t.Fatal("computer player should be seated")
	}
	if !bot.IsReady {
		t.Fatal("computer players join already ready")
	}
	if bot.Position != 1 {
		t.Fatalf("expected bot at position 1, got %d", bot.Position)
	}

	found := false
	for _, name := range botNames {
		if bot.Name == name {
			found = true
		}
	}
	if !found {
		t.Fatalf("bot name %q should come from the fixed pool", bot.Name)
	}
}

func TestAddComputerPlayerUsesUnusedNames(t *testing.T) {
	_, r := newTestRoom(t, 1)
	for i := 0; i < 9; i++ {
		if err := r.AddComputerPlayer(); err != nil {
			t.Fatalf("should be able to add bot %d: %v", i, err)
		}
	}
	seen := make(map[string]bool)
	for _, p := range r.Snapshot().Players {
		if !p.IsComputer {
			continue
		}
		if seen[p.Name] {
			t.Fatalf("bot name %q used twice", p.Name)
		}
		seen[p.Name] = true
	}
	if err := r.AddComputerPlayer(); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestAddComputerPlayerOutsideWaiting(t *testing.T) {
	_, r := newTestRoom(t, 3)
	if err := r.Start(); err != nil {
		t.Fatalf("should be able to start: %v", err)
	}
	if err := r.AddComputerPlayer(); err != ErrIllegalPhase {
		t.Fatalf("expected ErrIllegalPhase, got %v", err)
	}
}

func TestChatMessages(t *testing.T) {
	_, r := newTestRoom(t, 2)
	if err := r.AddChatMessage("p1", "hello"); err != nil {
		t.Fatalf("should be able to chat: %v", err)
	}
	if err := r.AddChatMessage("ghost", "boo"); err != ErrPlayerNotFound {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}

	msgs := r.Messages()
	last := msgs[len(msgs)-1]
	if last.Kind != MessageChat || last.Message != "hello" || last.PlayerName != "Bob" {
		t.Fatalf("unexpected chat entry: %+v", last)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Timestamp < msgs[i-1].Timestamp {
			t.Fatal("messages should be ordered by timestamp")
		}
	}
}

func TestSubscriptions(t *testing.T) {
	_, r := newTestRoom(t, 2)

	var snaps []*Snapshot
	var chats [][]ChatMessage
	unsubRoom := r.SubscribeToRoom(func(s *Snapshot) { snaps = append(snaps, s) })
	unsubChat := r.SubscribeToChat(func(m []ChatMessage) { chats = append(chats, m) })

	if len(snaps) != 1 || len(chats) != 1 {
		t.Fatalf("subscribers should receive the current state immediately, got %d/%d", len(snaps), len(chats))
	}

	if err := r.Join("p2", "Charlie"); err != nil {
		t.Fatalf("should be able to join: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("room subscriber should have been notified, got %d snapshots", len(snaps))
	}
	if len(snaps[1].Players) != 3 {
		t.Fatalf("expected 3 players in pushed snapshot, got %d", len(snaps[1].Players))
	}
	if len(chats) != 2 {
		t.Fatalf("chat subscriber should have been notified, got %d lists", len(chats))
	}

	unsubRoom()
	unsubChat()
	if err := r.AddChatMessage("p0", "quiet now"); err != nil {
		t.Fatalf("should be able to chat: %v", err)
	}
	if len(snaps) != 2 || len(chats) != 2 {
		t.Fatal("unsubscribed callbacks must not fire")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	_, r := newTestRoom(t, 3)
	startPlaying(t, r, 3)

	snap := r.Snapshot()
	for _, p := range snap.Players {
		for i := range p.Cards {
			p.Cards[i].Name = "tampered"
		}
	}
	for _, p := range r.Snapshot().Players {
		for _, c := range p.Cards {
			if c.Name == "tampered" {
				t.Fatal("mutating a snapshot must not leak into room state")
			}
		}
	}
}

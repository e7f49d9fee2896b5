// Package ws exposes the game operations over socket.io and pushes full room
// snapshots and chat lists to every client in a room after each mutation.
package ws

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"potakka/internal/config"
	"potakka/internal/game"
)

type Server struct {
	rm  *game.RoomManager
	cfg config.Config
	io  *socketio.Server

	mu      sync.Mutex
	tracked map[string]bool
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{
		rm:      rm,
		cfg:     cfg,
		tracked: make(map[string]bool),
	}
}

type joinPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Host     bool   `json:"host"`
}

type roomPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type passPayload struct {
	RoomID       string `json:"roomId"`
	PlayerID     string `json:"playerId"`
	CardID       string `json:"cardId"`
	DeclaredName string `json:"declaredName"`
}

type bluffPayload struct {
	RoomID   string `json:"roomId"`
	CallerID string `json:"callerId"`
	TargetID string `json:"targetId"`
	CardID   string `json:"cardId"`
}

type chatPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

// Mount registers the socket.io endpoint on the gin engine and starts serving
// connections. The caller is responsible for closing the returned server.
func (s *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	s.io = io

	io.OnConnect("/", func(c socketio.Conn) error {
		log.Debug().Str("sid", c.ID()).Msg("socket connected")
		return nil
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		log.Warn().Err(err).Msg("socket error")
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Debug().Str("sid", c.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	io.OnEvent("/", "room:join", func(c socketio.Conn, p joinPayload) {
		room, err := s.joinRoom(p)
		if err != nil {
			s.emitErr(c, err)
			return
		}
		c.Join(p.RoomID)
		s.Track(room)
		c.Emit("room:update", room.Snapshot())
		c.Emit("chat:update", room.Messages())
	})

	io.OnEvent("/", "room:addBot", func(c socketio.Conn, p roomPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.AddComputerPlayer()
		})
	})

	io.OnEvent("/", "game:start", func(c socketio.Conn, p roomPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.Start()
		})
	})

	io.OnEvent("/", "game:ready", func(c socketio.Conn, p roomPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.SetReady(p.PlayerID)
		})
	})

	io.OnEvent("/", "game:pass", func(c socketio.Conn, p passPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.PassCard(p.PlayerID, p.CardID, p.DeclaredName)
		})
	})

	io.OnEvent("/", "game:bluff", func(c socketio.Conn, p bluffPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.CallBluff(p.CallerID, p.TargetID, p.CardID)
		})
	})

	io.OnEvent("/", "chat:send", func(c socketio.Conn, p chatPayload) {
		s.withRoom(c, p.RoomID, func(room *game.Room) error {
			return room.AddChatMessage(p.PlayerID, p.Message)
		})
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	return io
}

func (s *Server) joinRoom(p joinPayload) (*game.Room, error) {
	if p.Host {
		room, err := s.rm.CreateRoom(p.RoomID, p.PlayerID, p.Name)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, game.ErrRoomExists) {
			return nil, err
		}
		// Host reconnecting to its own room falls through to a plain join.
	}
	room, err := s.rm.Get(p.RoomID)
	if err != nil {
		return nil, err
	}
	if err := room.Join(p.PlayerID, p.Name); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Server) withRoom(c socketio.Conn, roomID string, fn func(*game.Room) error) {
	room, err := s.rm.Get(roomID)
	if err != nil {
		s.emitErr(c, err)
		return
	}
	if err := fn(room); err != nil {
		s.emitErr(c, err)
	}
}

func (s *Server) emitErr(c socketio.Conn, err error) {
	c.Emit("game:error", err.Error())
}

// Track wires broadcast subscriptions and the bot scheduler to a room,
// exactly once per room id. Safe to call repeatedly.
func (s *Server) Track(room *game.Room) {
	s.mu.Lock()
	if s.tracked[room.ID()] {
		s.mu.Unlock()
		return
	}
	s.tracked[room.ID()] = true
	s.mu.Unlock()

	roomID := room.ID()
	room.SubscribeToRoom(func(snap *game.Snapshot) {
		s.io.BroadcastToRoom("/", roomID, "room:update", snap)
	})
	room.SubscribeToChat(func(msgs []game.ChatMessage) {
		s.io.BroadcastToRoom("/", roomID, "chat:update", msgs)
	})

	go s.runBots(room)
}

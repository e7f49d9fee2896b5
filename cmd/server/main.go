package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"potakka/internal/config"
	"potakka/internal/game"
	"potakka/internal/store"
	"potakka/internal/ws"
	staticserver "potakka/static"
)

const version = "v1.0.0"

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("POTAKKA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "potakka",
		Short:         "Card-passing bluff party game server.",
		Args:          cobra.ExactArgs(0),
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: POTAKKA_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: POTAKKA_PORT)")
	fs.StringVar(&cfg.DBPath, "db-path", "./potakka.db", "path to the sqlite database, empty for in-memory rooms only (env: POTAKKA_DB_PATH)")
	fs.DurationVar(&cfg.ResetDelay, "bluff-result-delay", config.DefaultResetDelay, "how long the bluff result stays up before the next round (env: POTAKKA_BLUFF_RESULT_DELAY)")
	fs.DurationVar(&cfg.BotTick, "bot-tick", config.DefaultBotTick, "cadence of computer player decisions (env: POTAKKA_BOT_TICK)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display debug output (env: POTAKKA_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("potakka {{.Version}}\n")

	return cmd
}

func run(cfg *config.Config) error {
	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var st game.Store
	if cfg.DBPath != "" {
		s, err := store.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		st = s
	}

	rm := game.NewRoomManager(st)
	rm.ResetDelay = cfg.ResetDelay
	if err := rm.Restore(); err != nil {
		return err
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + game manager
	sock := ws.New(rm, *cfg)
	io := sock.Mount(r)
	defer io.Close()

	// Re-attach broadcasts and bot schedulers to rooms loaded from the store.
	for _, id := range rm.Rooms() {
		if room, err := rm.Get(id); err == nil {
			sock.Track(room)
		}
	}

	// Minimal read API for room snapshots, chat history and the card catalog
	r.GET("/api/rooms/:id", func(c *gin.Context) {
		room, err := rm.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, room.Snapshot())
	})
	r.GET("/api/rooms/:id/messages", func(c *gin.Context) {
		room, err := rm.Get(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, room.Messages())
	})
	r.GET("/api/cards", func(c *gin.Context) {
		c.JSON(http.StatusOK, game.CardItems())
	})

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	zerologlog.Info().Str("addr", cfg.Addr()).Msg("listening")
	return r.Run(cfg.Addr())
}

func main() {
	cfg := &config.Config{}
	if err := newCmd(cfg).Execute(); err != nil {
		zerologlog.Fatal().Err(err).Msg("potakka")
	}
}

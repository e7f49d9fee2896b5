package config

import (
	"fmt"
	"time"
)

const (
	DefaultResetDelay = 5 * time.Second
	DefaultBotTick    = 1500 * time.Millisecond
)

type Config struct {
	Bind       string
	Port       int
	DBPath     string
	ResetDelay time.Duration
	BotTick    time.Duration
	Verbose    bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.ResetDelay <= 0 {
		return fmt.Errorf("invalid bluff-result-delay: %s", c.ResetDelay)
	}
	if c.BotTick <= 0 {
		return fmt.Errorf("invalid bot-tick: %s", c.BotTick)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/cards"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/internal/session"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Card-Text-Analytics/pkg/logger"
)

type globalFlags struct {
	configPath string
	cardsFile  string
	pagesDir   string
	json       bool
	logLevel   string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error

	sessionOnce sync.Once
	session     *session.Session
	sessionErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		logger.Setup(c.flags.logLevel, "text", os.Stderr)

		var cfg *config.Config
		path := strings.TrimSpace(c.flags.configPath)
		if path == "" {
			cfg = config.Default()
		} else {
			loaded, err := config.Load(path)
			if err != nil {
				c.configErr = err
				return
			}
			cfg = loaded
		}
		if v := strings.TrimSpace(c.flags.cardsFile); v != "" {
			cfg.Data.CardsFile = v
		}
		if v := strings.TrimSpace(c.flags.pagesDir); v != "" {
			cfg.Data.PagesDir = v
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureSession builds the session and loads the card file into it once
// per invocation.
func (c *commandContext) ensureSession() (*session.Session, error) {
	c.sessionOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.sessionErr = err
			return
		}
		loaded, err := cards.LoadFile(cfg.Data.CardsFile)
		if err != nil {
			c.sessionErr = fmt.Errorf("loading cards: %w", err)
			return
		}
		s := session.New(session.Options{
			Delimiter:      cfg.Data.Delimiter(),
			PatternTimeout: cfg.Search.PatternTimeout,
		})
		s.LoadCards(loaded)
		c.session = s
	})
	return c.session, c.sessionErr
}

func (c *commandContext) jsonOutput() bool {
	return c.flags.json
}

// topK resolves a --top flag: negative falls back to the configured default.
func (c *commandContext) topK(k int) int {
	if k >= 0 {
		return k
	}
	if cfg, err := c.ensureConfig(); err == nil {
		return cfg.Search.DefaultTopK
	}
	return 10
}

package main

import (
	"strings"
	"sync"

	"garage/internal/config"
	"garage/internal/inventory"
	"garage/internal/logging"
)

type commandContext struct {
	configFlag *string

	once    sync.Once
	config  *config.Config
	service *inventory.Service
	err     error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.err = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.err = err
			return
		}
		c.config = cfg
		c.service = inventory.NewService(cfg, logging.NewNop())
	})
	return c.config, c.err
}

func (c *commandContext) ensureService() (*inventory.Service, error) {
	if _, err := c.ensureConfig(); err != nil {
		return nil, err
	}
	return c.service, nil
}

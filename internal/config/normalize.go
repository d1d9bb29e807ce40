package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	// Relative store paths resolve against the data directory.
	if c.Paths.MasterFile, err = c.resolveDataPath(c.Paths.MasterFile, defaultMasterFile); err != nil {
		return fmt.Errorf("paths.master_file: %w", err)
	}
	if c.Paths.CollectionFile, err = c.resolveDataPath(c.Paths.CollectionFile, defaultCollectionFile); err != nil {
		return fmt.Errorf("paths.collection_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) != "" {
		if c.Paths.LockFile, err = c.resolveDataPath(c.Paths.LockFile, ""); err != nil {
			return fmt.Errorf("paths.lock_file: %w", err)
		}
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) resolveDataPath(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if strings.HasPrefix(value, "~") || filepath.IsAbs(value) {
		return expandPath(value)
	}
	return filepath.Join(c.Paths.DataDir, value), nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

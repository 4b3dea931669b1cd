package config

import (
	"errors"
	"fmt"

	"vidna/internal/mutation"
	"vidna/internal/posterize"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCodec(); err != nil {
		return err
	}
	if err := c.validateDraw(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCodec() error {
	if _, err := posterize.ParseLevel(c.Codec.Posterization); err != nil {
		return fmt.Errorf("codec.posterization: %w", err)
	}
	if _, err := mutation.ParseMode(c.Codec.Mutation); err != nil {
		return fmt.Errorf("codec.mutation: %w", err)
	}
	return nil
}

func (c *Config) validateDraw() error {
	if c.Draw.MaxWidth < 0 {
		return errors.New("draw.max_width must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

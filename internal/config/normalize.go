package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCodec(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for _, field := range []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.encodings_dir", &c.Paths.EncodingsDir, defaultEncodingsDir},
		{"paths.decoded_dir", &c.Paths.DecodedDir, defaultDecodedDir},
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
	} {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeCodec() error {
	c.Codec.Posterization = strings.ToLower(strings.TrimSpace(c.Codec.Posterization))
	switch c.Codec.Posterization {
	case "":
		c.Codec.Posterization = defaultPosterization
	case "med":
		c.Codec.Posterization = "medium"
	}
	c.Codec.Mutation = strings.ToLower(strings.TrimSpace(c.Codec.Mutation))
	if c.Codec.Mutation == "" {
		c.Codec.Mutation = defaultMutation
	}
	if c.Codec.Seed == 0 {
		if value, ok := os.LookupEnv("VIDNA_SEED"); ok && strings.TrimSpace(value) != "" {
			seed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return fmt.Errorf("VIDNA_SEED: %w", err)
			}
			c.Codec.Seed = seed
		}
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.FFmpegBinary = strings.TrimSpace(c.FFmpeg.FFmpegBinary)
	if c.FFmpeg.FFmpegBinary == "" {
		c.FFmpeg.FFmpegBinary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
	c.FFmpeg.VideoCodec = strings.TrimSpace(c.FFmpeg.VideoCodec)
	if c.FFmpeg.VideoCodec == "" {
		c.FFmpeg.VideoCodec = defaultVideoCodec
	}
	c.FFmpeg.Container = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.FFmpeg.Container)), ".")
	if c.FFmpeg.Container == "" {
		c.FFmpeg.Container = defaultContainer
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

const (
	defaultEncodingsDir  = "~/.local/share/vidna/encodings"
	defaultDecodedDir    = "~/.local/share/vidna/decoded"
	defaultDataDir       = "~/.local/share/vidna"
	defaultPosterization = "none"
	defaultMutation      = "none"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultVideoCodec    = "mjpeg"
	defaultContainer     = "avi"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			EncodingsDir: defaultEncodingsDir,
			DecodedDir:   defaultDecodedDir,
			DataDir:      defaultDataDir,
		},
		Codec: Codec{
			Posterization: defaultPosterization,
			Mutation:      defaultMutation,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			VideoCodec:    defaultVideoCodec,
			Container:     defaultContainer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultManifest       = "memories_history.json"
	defaultOutputDir      = "downloads"
	defaultLogDir         = "~/.local/share/memories/logs"
	defaultConcurrency    = 12
	defaultConnectTimeout = 60
	defaultReadTimeout    = 300
	defaultFFmpegBinary   = "ffmpeg"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Manifest:  defaultManifest,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Download: Download{
			Concurrency:    defaultConcurrency,
			ConnectTimeout: defaultConnectTimeout,
			ReadTimeout:    defaultReadTimeout,
		},
		FFmpeg: FFmpeg{
			Binary: defaultFFmpegBinary,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultScenesDir     = "~/.chunky/scenes"
	defaultLogDir        = "~/.local/share/chunklapse/logs"
	defaultJavaBinary    = "java"
	defaultSettleSeconds = 2
	defaultVideoFPS      = 20
	defaultVideoCodec    = "h264"
	defaultMaxHeight     = 1080
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScenesDir: defaultScenesDir,
			LogDir:    defaultLogDir,
		},
		Render: Render{
			JavaBinary:    defaultJavaBinary,
			SettleSeconds: defaultSettleSeconds,
		},
		Video: Video{
			FPS:       defaultVideoFPS,
			Codec:     defaultVideoCodec,
			MaxHeight: defaultMaxHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultDataDir    = "~/.local/share/airstage"
	defaultStagingDir = "~/.local/share/airstage/staging"
	defaultExportDir  = "~/.local/share/airstage/export"
	defaultLogDir     = "~/.local/share/airstage/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			StagingDir: defaultStagingDir,
			ExportDir:  defaultExportDir,
			LogDir:     defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

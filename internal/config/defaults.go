package config

const (
	defaultDataDir        = "~/.local/share/garage/data"
	defaultMasterFile     = "master.csv"
	defaultCollectionFile = "collection.csv"
	defaultLogDir         = "~/.local/share/garage/logs"
	defaultAPIBind        = "127.0.0.1:7787"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:        defaultDataDir,
			MasterFile:     defaultMasterFile,
			CollectionFile: defaultCollectionFile,
			LogDir:         defaultLogDir,
			APIBind:        defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package utils

const (
	// ConfigFileName is the name of the local configuration file.
	ConfigFileName = ".codemass.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".codemass"
	// GlobalConfigFileName is the name of the global configuration file.
	GlobalConfigFileName = "config.yaml"
)

const (
	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors printed on exit.
	ApplicationExecutionFailedMessage = "Error"
)

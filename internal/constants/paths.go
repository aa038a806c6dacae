package constants

// Log file names and patterns.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.taskschema/logs/taskschema.log
	CLILogFileName = "taskschema.log"

	// LogMaxSizeMB is the size at which the CLI log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the age after which rotated log files are removed.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global configuration file.
	// This file is located in the taskschema home directory.
	GlobalConfigName = "config.yaml"
)

package constants

// Log file settings.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.gitmate/logs/gitmate.log
	CLILogFileName = "gitmate.log"

	// LogMaxSizeMB is the size at which the CLI log rotates.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated log files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated log files are kept.
	LogMaxAgeDays = 28

	// LogCompress enables gzip compression of rotated logs.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global gitmate configuration file.
	// This file is located in the gitmate home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the project-specific configuration file.
	// This file is located in the repository root.
	ProjectConfigName = ".gitmate.yaml"
)

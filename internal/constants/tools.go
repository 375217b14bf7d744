package constants

import "time"

// Tool detection configuration.
const (
	// ToolDetectionTimeout is the maximum duration for detecting git and its identity.
	// Detection runs in parallel but must complete within this timeout.
	ToolDetectionTimeout = 5 * time.Second

	// ToolGit is the name reported for the git executable.
	ToolGit = "git"

	// GitConfigUserName is the git config key holding the author name.
	GitConfigUserName = "user.name"

	// GitConfigUserEmail is the git config key holding the author email.
	GitConfigUserEmail = "user.email"
)

// Package testutil provides testing utilities for gitmate.
//
// This package contains a scripted git executor and canned git error output used
// across test files. It should only be imported by test files (*_test.go).
package testutil

// Canned git stderr text for simulating failures.
// Each mirrors what git prints with LC_ALL=C.
const (
	// StderrAuthFailed is printed when HTTPS credentials are rejected.
	StderrAuthFailed = "remote: Invalid username or password.\nfatal: Authentication failed for 'https://example.com/team/repo.git/'\n"

	// StderrNetwork is printed when the remote host cannot be resolved.
	StderrNetwork = "fatal: unable to access 'https://nohost.invalid/repo.git/': Could not resolve host: nohost.invalid\n"

	// StderrRejected is printed when a push is not a fast-forward.
	StderrRejected = " ! [rejected]        main -> main (fetch first)\nerror: failed to push some refs to 'https://example.com/team/repo.git'\n"

	// StderrIdentity is printed when user.name/user.email are missing.
	StderrIdentity = "Author identity unknown\n\n*** Please tell me who you are.\n"

	// StderrConflict is printed on stdout by a pull that stopped on conflicts.
	StderrConflict = "CONFLICT (content): Merge conflict in a.txt\nAutomatic merge failed; fix conflicts and then commit the result.\n"

	// StderrNotRepo is printed when the directory is not a repository.
	StderrNotRepo = "fatal: not a git repository (or any of the parent directories): .git\n"
)

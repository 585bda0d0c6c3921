package app

import (
	"github.com/henri123lemoine/twig/internal/git"
)

// Message types for the bubbletea app.

// CommandResultMsg carries the result of a git command back to Update.
type CommandResultMsg struct {
	Result git.Result
}

// CacheLoadedMsg is sent when the cached listings for the repository have
// been read. Either slice may be nil.
type CacheLoadedMsg struct {
	Local  []git.LocalBranch
	Remote []git.RemoteBranch
}

// LogClosedMsg is sent when the log process exits (foreground) or has been
// handed to the multiplexer.
type LogClosedMsg struct {
	Err error
}

// CacheSavedMsg is sent after a listing was written to the cache.
type CacheSavedMsg struct {
	Err error
}

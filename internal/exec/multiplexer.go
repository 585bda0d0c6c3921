package exec

import (
	"os"
	osExec "os/exec"
	"strings"
)

// MultiplexerBackend decides where a command twig hands off is shown: a
// pane of the surrounding terminal multiplexer, or twig's own terminal.
type MultiplexerBackend interface {
	// Name returns the human-readable name (e.g., "tmux", "zellij").
	Name() string

	// Command returns the process that shows argv, run from dir with the
	// extra KEY=VALUE pairs in env. Floating asks for an overlay instead of
	// a split where the multiplexer has one. Foreground reports whether the
	// process needs twig's terminal, in which case the UI must be suspended
	// while it runs. The surface stays open after argv exits.
	Command(dir string, argv, env []string, floating bool) (cmd *osExec.Cmd, foreground bool)
}

// tmuxBackend implements MultiplexerBackend for tmux.
type tmuxBackend struct{}

func (t *tmuxBackend) Name() string {
	return "tmux"
}

// tmux passes the command to a shell, so argv is quoted into one string.
func (t *tmuxBackend) Command(dir string, argv, env []string, floating bool) (*osExec.Cmd, bool) {
	shell := shellJoin(withEnv(env, argv))
	if floating {
		// Without -E the popup stays up until dismissed.
		return osExec.Command("tmux", "display-popup", "-d", dir, "-w", "90%", "-h", "90%", shell), false
	}
	return osExec.Command("tmux", "split-window", "-h", "-c", dir, shell), false
}

// zellijBackend implements MultiplexerBackend for zellij.
type zellijBackend struct{}

func (z *zellijBackend) Name() string {
	return "zellij"
}

func (z *zellijBackend) Command(dir string, argv, env []string, floating bool) (*osExec.Cmd, bool) {
	args := []string{"run"}
	if floating {
		args = append(args, "--floating")
	}
	args = append(args, "--cwd", dir, "--")
	args = append(args, withEnv(env, argv)...)
	return osExec.Command("zellij", args...), false
}

// noneBackend runs the command in twig's own terminal.
type noneBackend struct{}

func (n *noneBackend) Name() string { return "" }

func (n *noneBackend) Command(dir string, argv, env []string, _ bool) (*osExec.Cmd, bool) {
	cmd := osExec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	return cmd, true
}

// withEnv prefixes argv with env(1) so the pane gets env whatever its
// shell is.
func withEnv(env, argv []string) []string {
	if len(env) == 0 {
		return argv
	}
	out := make([]string, 0, len(env)+len(argv)+1)
	out = append(out, "env")
	out = append(out, env...)
	return append(out, argv...)
}

// Names accepted by BackendFor.
const (
	SurfaceAuto   = "auto"
	SurfaceTmux   = "tmux"
	SurfaceZellij = "zellij"
	SurfaceNone   = "none"
)

// BackendFor returns the backend for a configured surface name. "auto" and
// "" detect the surrounding multiplexer.
func BackendFor(surface string) MultiplexerBackend {
	switch surface {
	case SurfaceTmux:
		return &tmuxBackend{}
	case SurfaceZellij:
		return &zellijBackend{}
	case SurfaceNone:
		return &noneBackend{}
	}
	return Backend()
}

var multiplexerBackend MultiplexerBackend

// Backend returns the backend for the current environment.
// The backend is cached for the lifetime of the process.
func Backend() MultiplexerBackend {
	if multiplexerBackend != nil {
		return multiplexerBackend
	}

	// Check for IDE terminals first - they inherit env vars but aren't interactive
	termProgram := os.Getenv("TERM_PROGRAM")
	if termProgram == "vscode" {
		multiplexerBackend = &noneBackend{}
		return multiplexerBackend
	}
	if strings.HasPrefix(os.Getenv("TERMINAL_EMULATOR"), "JetBrains") {
		multiplexerBackend = &noneBackend{}
		return multiplexerBackend
	}

	if os.Getenv("TMUX") != "" {
		multiplexerBackend = &tmuxBackend{}
	} else if os.Getenv("ZELLIJ") != "" {
		multiplexerBackend = &zellijBackend{}
	} else {
		multiplexerBackend = &noneBackend{}
	}

	return multiplexerBackend
}

// ResetBackend resets the cached backend (useful for testing).
func ResetBackend() {
	multiplexerBackend = nil
}

// Package exec hands commands off to a terminal surface outside the UI.
package exec

import (
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/henri123lemoine/twig/internal/debug"
	"github.com/henri123lemoine/twig/internal/git"
)

// LogProcess returns the process that shows c, a log command built by
// git.Log, through backend. binary is the git executable.
func LogProcess(backend MultiplexerBackend, binary, dir string, c git.Command, floating bool) (cmd *exec.Cmd, foreground bool, err error) {
	if c.Tag != git.TagLog {
		return nil, false, errors.New("not a log command: " + c.String())
	}
	if binary == "" {
		binary = "git"
	}

	argv := make([]string, 0, len(c.Args)+1)
	argv = append(argv, binary)
	argv = append(argv, c.Args...)

	cmd, foreground = backend.Command(dir, argv, PagerEnv(), floating)
	debug.Log("log via %q: %s (foreground=%v)", backend.Name(), strings.Join(cmd.Args, " "), foreground)
	return cmd, foreground, nil
}

// PagerEnv is the environment the log runs with. Git's default pager is
// less with -F, which exits at once when the log fits on one screen and
// takes the output with it when the pane closes, so -F is dropped from
// the user's LESS.
func PagerEnv() []string {
	return []string{"LESS=" + lessWithoutQuit(os.Getenv("LESS"))}
}

// lessWithoutQuit removes quit-if-one-screen from a LESS value. An unset
// value gets git's own default minus F.
func lessWithoutQuit(flags string) string {
	if strings.TrimSpace(flags) == "" {
		return "RX"
	}
	var kept []string
	for _, f := range strings.Fields(flags) {
		if strings.HasPrefix(f, "--") {
			if f != "--quit-if-one-screen" {
				kept = append(kept, f)
			}
			continue
		}
		f = strings.ReplaceAll(f, "F", "")
		if f != "" && f != "-" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// shellJoin quotes argv for sh -c.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = shellQuote(a)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

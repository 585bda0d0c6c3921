package exec

import (
	"reflect"
	"testing"

	"github.com/henri123lemoine/twig/internal/git"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"git", "git"},
		{"--oneline", "--oneline"},
		{"feature/auth", "feature/auth"},
		{"--format=%h %s", "'--format=%h %s'"},
		{"it's", `'it'\''s'`},
		{"", "''"},
		{"$(rm -rf ~)", "'$(rm -rf ~)'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := shellQuote(tt.input); got != tt.expected {
				t.Errorf("shellQuote(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLogProcess(t *testing.T) {
	t.Setenv("LESS", "")
	logCmd := git.Log([]string{"--oneline", "--format=%h %s"}, "feature/auth")

	tests := []struct {
		name           string
		backend        MultiplexerBackend
		floating       bool
		wantArgs       []string
		wantForeground bool
	}{
		{
			name:     "tmux split",
			backend:  &tmuxBackend{},
			wantArgs: []string{"tmux", "split-window", "-h", "-c", "/repo", "env LESS=RX git log --oneline '--format=%h %s' feature/auth"},
		},
		{
			name:     "tmux popup",
			backend:  &tmuxBackend{},
			floating: true,
			wantArgs: []string{"tmux", "display-popup", "-d", "/repo", "-w", "90%", "-h", "90%", "env LESS=RX git log --oneline '--format=%h %s' feature/auth"},
		},
		{
			name:     "zellij pane",
			backend:  &zellijBackend{},
			wantArgs: []string{"zellij", "run", "--cwd", "/repo", "--", "env", "LESS=RX", "git", "log", "--oneline", "--format=%h %s", "feature/auth"},
		},
		{
			name:     "zellij floating pane",
			backend:  &zellijBackend{},
			floating: true,
			wantArgs: []string{"zellij", "run", "--floating", "--cwd", "/repo", "--", "env", "LESS=RX", "git", "log", "--oneline", "--format=%h %s", "feature/auth"},
		},
		{
			name:           "no multiplexer",
			backend:        &noneBackend{},
			floating:       true,
			wantArgs:       []string{"git", "log", "--oneline", "--format=%h %s", "feature/auth"},
			wantForeground: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, fg, err := LogProcess(tt.backend, "", "/repo", logCmd, tt.floating)
			if err != nil {
				t.Fatalf("LogProcess() error: %v", err)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("args = %q, want %q", cmd.Args, tt.wantArgs)
			}
			if fg != tt.wantForeground {
				t.Errorf("foreground = %v, want %v", fg, tt.wantForeground)
			}
		})
	}
}

func TestLogProcessForegroundRunsInRepo(t *testing.T) {
	t.Setenv("LESS", "-FRX")
	cmd, _, err := LogProcess(&noneBackend{}, "/usr/bin/git", "/repo", git.Log(nil, "main"), false)
	if err != nil {
		t.Fatalf("LogProcess() error: %v", err)
	}
	if cmd.Dir != "/repo" {
		t.Errorf("Dir = %q, want /repo", cmd.Dir)
	}
	if cmd.Args[0] != "/usr/bin/git" {
		t.Errorf("binary = %q, want /usr/bin/git", cmd.Args[0])
	}
	// A short log must not make the pager exit before the user sees it.
	if got := cmd.Env[len(cmd.Env)-1]; got != "LESS=-RX" {
		t.Errorf("last env entry = %q, want LESS=-RX", got)
	}
}

func TestLessWithoutQuit(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "RX"},
		{"FRX", "RX"},
		{"-FRX", "-RX"},
		{"-F -R", "-R"},
		{"-R --quit-if-one-screen -i", "-R -i"},
		{"-R --mouse", "-R --mouse"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := lessWithoutQuit(tt.input); got != tt.expected {
				t.Errorf("lessWithoutQuit(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMultiplexerPanesOutliveTheLog(t *testing.T) {
	argv := []string{"git", "log", "main"}
	for _, b := range []MultiplexerBackend{&tmuxBackend{}, &zellijBackend{}} {
		for _, floating := range []bool{false, true} {
			cmd, _ := b.Command("/repo", argv, nil, floating)
			for _, a := range cmd.Args {
				if a == "-E" || a == "-EE" || a == "--close-on-exit" {
					t.Errorf("%s (floating=%v) closes the pane when git exits: %q", b.Name(), floating, cmd.Args)
				}
			}
		}
	}
}

func TestLogProcessRejectsOtherCommands(t *testing.T) {
	if _, _, err := LogProcess(&noneBackend{}, "git", "/repo", git.Switch("main"), false); err == nil {
		t.Error("Expected an error for a non-log command")
	}
}

func TestBackendDetection(t *testing.T) {
	t.Cleanup(ResetBackend)

	tests := []struct {
		name   string
		env    map[string]string
		expect string
	}{
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1/default,1,0", "ZELLIJ": "", "TERM_PROGRAM": "", "TERMINAL_EMULATOR": ""}, "tmux"},
		{"zellij", map[string]string{"TMUX": "", "ZELLIJ": "0", "TERM_PROGRAM": "", "TERMINAL_EMULATOR": ""}, "zellij"},
		{"plain terminal", map[string]string{"TMUX": "", "ZELLIJ": "", "TERM_PROGRAM": "", "TERMINAL_EMULATOR": ""}, ""},
		{"vscode inside tmux", map[string]string{"TMUX": "/tmp/tmux-1/default,1,0", "ZELLIJ": "", "TERM_PROGRAM": "vscode", "TERMINAL_EMULATOR": ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			ResetBackend()
			if got := Backend().Name(); got != tt.expect {
				t.Errorf("Backend().Name() = %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestBackendFor(t *testing.T) {
	t.Cleanup(ResetBackend)

	if got := BackendFor(SurfaceTmux).Name(); got != "tmux" {
		t.Errorf("BackendFor(tmux) = %q", got)
	}
	if got := BackendFor(SurfaceZellij).Name(); got != "zellij" {
		t.Errorf("BackendFor(zellij) = %q", got)
	}
	if got := BackendFor(SurfaceNone).Name(); got != "" {
		t.Errorf("BackendFor(none) = %q", got)
	}

	t.Setenv("TMUX", "")
	t.Setenv("ZELLIJ", "0")
	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("TERMINAL_EMULATOR", "")
	ResetBackend()
	if got := BackendFor(SurfaceAuto).Name(); got != "zellij" {
		t.Errorf("BackendFor(auto) = %q, want zellij", got)
	}
}

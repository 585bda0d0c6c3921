package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/henri123lemoine/twig/internal/debug"
)

// Tag identifies what an issued command was for. Results carry the tag back
// so the caller can decide how to apply them.
type Tag string

const (
	TagListLocal  Tag = "list_local_branches"
	TagListRemote Tag = "list_remote_branches"
	TagSwitch     Tag = "switch"
	TagCreate     Tag = "create"
	TagDelete     Tag = "delete"
	TagFetch      Tag = "fetch"
	TagTrack      Tag = "track_remote"
	TagLog        Tag = "log"
)

// Command is a git invocation tagged with its purpose.
type Command struct {
	Tag  Tag
	Args []string
}

func (c Command) String() string {
	return "git " + strings.Join(c.Args, " ")
}

// PreconditionError is returned when an action is rejected before any command
// is built, e.g. fetching a branch that has no upstream.
type PreconditionError struct {
	Action string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

// ListLocal lists local branches with upstream info.
func ListLocal() Command {
	return Command{Tag: TagListLocal, Args: []string{"branch", "-vv"}}
}

// ListRemote lists remote-tracking branches.
func ListRemote() Command {
	return Command{Tag: TagListRemote, Args: []string{"branch", "-r", "-v"}}
}

// Switch checks out an existing local branch.
func Switch(name string) Command {
	return Command{Tag: TagSwitch, Args: []string{"switch", name}}
}

// SwitchPrevious checks out the previously checked out branch.
func SwitchPrevious() Command {
	return Command{Tag: TagSwitch, Args: []string{"switch", "-"}}
}

// Create creates a branch from HEAD and checks it out.
func Create(name string) (Command, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Command{}, &PreconditionError{Action: "create branch", Reason: "branch name is empty"}
	}
	return Command{Tag: TagCreate, Args: []string{"checkout", "-b", name}}, nil
}

// Delete deletes a local branch; force uses -D.
func Delete(name string, force bool) Command {
	flag := "-d"
	if force {
		flag = "-D"
	}
	return Command{Tag: TagDelete, Args: []string{"branch", flag, name}}
}

// Fetch fast-forwards a local branch from its upstream without checking it
// out: `git fetch <remote> <ref>:<local>`.
func Fetch(b LocalBranch) (Command, error) {
	if b.Upstream == nil {
		return Command{}, &PreconditionError{Action: "fetch", Reason: "local branch does not track any remote branch"}
	}
	remote, ref, ok := b.Upstream.Remote()
	if !ok {
		return Command{}, &PreconditionError{Action: "fetch", Reason: fmt.Sprintf("invalid upstream %q", b.Upstream.Name)}
	}
	return Command{Tag: TagFetch, Args: []string{"fetch", remote, ref + ":" + b.Name}}, nil
}

// Track creates a local branch tracking the given remote branch.
func Track(b RemoteBranch) Command {
	return Command{Tag: TagTrack, Args: []string{"checkout", "--track", b.Name}}
}

// Log shows the history of a branch, with extra user-configured arguments.
func Log(extra []string, name string) Command {
	args := make([]string, 0, len(extra)+2)
	args = append(args, "log")
	for _, a := range extra {
		if a != "" {
			args = append(args, a)
		}
	}
	args = append(args, name)
	return Command{Tag: TagLog, Args: args}
}

// Result is the outcome of a command. ExitCode is nil when the process could
// not be started or was killed.
type Result struct {
	Tag      Tag
	Seq      uint64
	ExitCode *int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// OK reports whether the command ran and exited with status 0.
func (r Result) OK() bool {
	return r.ExitCode != nil && *r.ExitCode == 0
}

// Message is the user-facing failure text: stderr verbatim, or the exec
// error when there was no output.
func (r Result) Message() string {
	if msg := strings.TrimRight(string(r.Stderr), "\n"); msg != "" {
		return msg
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	if r.ExitCode != nil {
		return fmt.Sprintf("git exited with status %d", *r.ExitCode)
	}
	return "git did not report an exit status"
}

// Runner executes git commands in a working directory.
type Runner struct {
	// Binary is the git executable, "git" when empty.
	Binary string

	seq atomic.Uint64
}

// NewRunner returns a Runner for the given git binary.
func NewRunner(binary string) *Runner {
	return &Runner{Binary: binary}
}

// Next reserves the sequence number for the next command.
func (r *Runner) Next() uint64 {
	return r.seq.Add(1)
}

// Run executes c in dir and blocks until it exits.
func (r *Runner) Run(ctx context.Context, dir string, seq uint64, c Command) Result {
	defer debug.Timed(fmt.Sprintf("#%d %s", seq, c))()

	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(ctx, binary, c.Args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{Tag: c.Tag, Seq: seq}
	err := cmd.Run()
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		code := 0
		res.ExitCode = &code
	case errors.As(err, &exitErr):
		if code := exitErr.ExitCode(); code >= 0 {
			res.ExitCode = &code
		}
		res.Err = err
	default:
		res.Err = fmt.Errorf("%s: %w", c, err)
	}

	if !res.OK() {
		debug.Log("#%d %s failed: %s", seq, c.Tag, res.Message())
	}
	return res
}

// Output runs c and returns stdout, folding stderr into the error.
func (r *Runner) Output(ctx context.Context, dir string, c Command) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	res := r.Run(ctx, dir, r.Next(), c)
	if !res.OK() {
		return "", fmt.Errorf("%s: %s", c, res.Message())
	}
	return string(res.Stdout), nil
}

package git

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Parse failure causes, matched with errors.Is against a *ParseError.
var (
	ErrUnexpectedEnd = errors.New("unexpected end of line")
	ErrExpectedName  = errors.New("expected branch name")
	ErrExpectedHex   = errors.New("expected hexadecimal commit sha")
	ErrUnterminated  = errors.New("missing closing bracket")
	ErrEmptyField    = errors.New("empty field")
	ErrExpectedRef   = errors.New("expected commit sha or '-> <ref>'")
)

// ParseError reports a listing line that does not match the branch grammar.
type ParseError struct {
	Line  int    // 1-based line number within a listing, 0 for a single line
	Field string // grammar field that failed, e.g. "commit_sha"
	Input string // the offending line
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse branch line %d (%s): %v: %q", e.Line, e.Field, e.Err, e.Input)
	}
	return fmt.Sprintf("failed to parse branch line (%s): %v: %q", e.Field, e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLocalLine parses one line of `git branch -vv`:
//
//	[*] <name> <sha> [\[<upstream>\]] <message>
//	+ <name> <sha> (<worktree>) [\[<upstream>\]] <message>
//
// The second form is a branch checked out in another worktree.
func ParseLocalLine(line string) (LocalBranch, error) {
	sc := scanner{s: trimLineEnding(line)}
	fail := func(field string, err error) (LocalBranch, error) {
		return LocalBranch{}, &ParseError{Field: field, Input: line, Err: err}
	}

	var b LocalBranch
	sc.skipSpace()
	b.IsCurrent = sc.consume("*")
	// '+' marks a branch checked out in another worktree, unless it
	// starts the name itself.
	elsewhere := !b.IsCurrent && sc.peek() == '+' && sc.pos+1 < len(sc.s) && isSpace(sc.s[sc.pos+1])
	if elsewhere {
		sc.pos++
	}
	sc.skipSpace()

	name, err := sc.name()
	if err != nil {
		return fail("name", err)
	}
	b.Name = name
	sc.skipSpace()

	sha, err := sc.sha()
	if err != nil {
		return fail("commit_sha", err)
	}
	b.CommitSHA = sha
	sc.skipSpace()

	if elsewhere && sc.peek() == '(' {
		path, err := sc.enclosed('(', ')')
		if err != nil {
			return fail("worktree", err)
		}
		b.Worktree = path
		sc.skipSpace()
	}

	if sc.peek() == '[' {
		descriptor, err := sc.enclosed('[', ']')
		if err != nil {
			return fail("upstream", err)
		}
		up := SplitUpstream(descriptor)
		b.Upstream = &up
		sc.skipSpace()
	}

	b.CommitMessage = sc.rest()
	return b, nil
}

// ParseRemoteLine parses one line of `git branch -r -v`:
//
//	<name> <sha> <message>
//	<name> -> <target>
func ParseRemoteLine(line string) (RemoteBranch, error) {
	sc := scanner{s: trimLineEnding(line)}
	fail := func(field string, err error) (RemoteBranch, error) {
		return RemoteBranch{}, &ParseError{Field: field, Input: line, Err: err}
	}

	sc.skipSpace()
	name, err := sc.name()
	if err != nil {
		return fail("name", err)
	}
	sc.skipSpace()

	// Commit form first, then the pointer form.
	mark := sc.pos
	if sha, err := sc.sha(); err == nil {
		sc.skipSpace()
		return RemoteBranch{Name: name, Ref: CommitRef{SHA: sha, Message: sc.rest()}}, nil
	}
	sc.pos = mark

	if sc.consume("-> ") {
		target := sc.rest()
		if strings.TrimSpace(target) == "" {
			return fail("ref", ErrEmptyField)
		}
		return RemoteBranch{Name: name, Ref: SymbolicRef{Target: target}}, nil
	}
	if sc.done() {
		return fail("ref", ErrUnexpectedEnd)
	}
	return fail("ref", ErrExpectedRef)
}

// ParseLocalListing parses the full output of `git branch -vv`. The listing
// is all-or-nothing: the first malformed line fails the batch.
func ParseLocalListing(out []byte) ([]LocalBranch, error) {
	return parseListing(out, ParseLocalLine)
}

// ParseRemoteListing parses the full output of `git branch -r -v`.
func ParseRemoteListing(out []byte) ([]RemoteBranch, error) {
	return parseListing(out, ParseRemoteLine)
}

func parseListing[T any](out []byte, parse func(string) (T, error)) ([]T, error) {
	var records []T
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, err := parse(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = n
			}
			return nil, err
		}
		records = append(records, record)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read branch listing: %w", err)
	}
	return records, nil
}

// FormatLocalLine renders a local branch in `git branch -vv` form.
// ParseLocalLine(FormatLocalLine(b)) == b for any b produced by the parser.
func FormatLocalLine(b LocalBranch) string {
	var sb strings.Builder
	switch {
	case b.IsCurrent:
		sb.WriteString("* ")
	case b.Worktree != "":
		sb.WriteString("+ ")
	default:
		sb.WriteString("  ")
	}
	sb.WriteString(b.Name)
	sb.WriteByte(' ')
	sb.WriteString(b.CommitSHA)
	if b.Worktree != "" && !b.IsCurrent {
		sb.WriteString(" (")
		sb.WriteString(b.Worktree)
		sb.WriteByte(')')
	}
	if b.Upstream != nil {
		sb.WriteString(" [")
		sb.WriteString(b.Upstream.String())
		sb.WriteByte(']')
	}
	if b.CommitMessage != "" {
		sb.WriteByte(' ')
		sb.WriteString(b.CommitMessage)
	}
	return sb.String()
}

// FormatRemoteLine renders a remote branch in `git branch -r -v` form.
func FormatRemoteLine(b RemoteBranch) string {
	switch ref := b.Ref.(type) {
	case SymbolicRef:
		return "  " + b.Name + " -> " + ref.Target
	case CommitRef:
		if ref.Message == "" {
			return "  " + b.Name + " " + ref.SHA
		}
		return "  " + b.Name + " " + ref.SHA + " " + ref.Message
	}
	return "  " + b.Name
}

func trimLineEnding(line string) string {
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		return line[:i]
	}
	return line
}

// scanner walks a single listing line.
type scanner struct {
	s   string
	pos int
}

func (sc *scanner) done() bool {
	return sc.pos >= len(sc.s)
}

func (sc *scanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *scanner) skipSpace() {
	for !sc.done() && isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
}

func (sc *scanner) consume(lit string) bool {
	if strings.HasPrefix(sc.s[sc.pos:], lit) {
		sc.pos += len(lit)
		return true
	}
	return false
}

func (sc *scanner) rest() string {
	r := sc.s[sc.pos:]
	sc.pos = len(sc.s)
	return r
}

// name reads either a parenthesised detached-HEAD label or a bare token.
func (sc *scanner) name() (string, error) {
	if sc.done() {
		return "", ErrUnexpectedEnd
	}
	if sc.peek() == '(' {
		if end := sc.parenEnd(); end > 0 {
			name := sc.s[sc.pos : end+1]
			sc.pos = end + 1
			return name, nil
		}
	}
	start := sc.pos
	for !sc.done() && !isSpace(sc.s[sc.pos]) {
		sc.pos++
	}
	if sc.pos == start {
		return "", ErrExpectedName
	}
	return sc.s[start:sc.pos], nil
}

// parenEnd returns the index of the ')' closing a label that starts at the
// current position, or -1 when the label is malformed.
func (sc *scanner) parenEnd() int {
	for i := sc.pos + 1; i < len(sc.s); i++ {
		c := sc.s[i]
		switch {
		case c == ')':
			if i == sc.pos+1 {
				return -1
			}
			return i
		case isLabelChar(c):
		default:
			return -1
		}
	}
	return -1
}

// sha reads a run of hex digits that must end at whitespace or end of line.
func (sc *scanner) sha() (string, error) {
	if sc.done() {
		return "", ErrUnexpectedEnd
	}
	start := sc.pos
	end := start
	for end < len(sc.s) && isHex(sc.s[end]) {
		end++
	}
	if end == start || (end < len(sc.s) && !isSpace(sc.s[end])) {
		return "", ErrExpectedHex
	}
	sc.pos = end
	return sc.s[start:end], nil
}

// enclosed reads a field between left and the first right, e.g. "[...]".
func (sc *scanner) enclosed(left, right byte) (string, error) {
	if sc.peek() != left {
		return "", ErrUnterminated
	}
	sc.pos++
	end := strings.IndexByte(sc.s[sc.pos:], right)
	if end < 0 {
		return "", ErrUnterminated
	}
	if end == 0 {
		return "", ErrEmptyField
	}
	inner := sc.s[sc.pos : sc.pos+end]
	sc.pos += end + 1
	return inner, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isLabelChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(" \t,./-_", c) >= 0
}

package git

import "strings"

// LocalBranch is one line of `git branch -vv`.
type LocalBranch struct {
	Name          string
	IsCurrent     bool
	CommitSHA     string
	Upstream      *Upstream // nil when the branch tracks nothing
	CommitMessage string

	// Worktree is the path of another worktree that has the branch
	// checked out, empty otherwise.
	Worktree string
}

// BranchName returns the branch name.
func (b LocalBranch) BranchName() string {
	return b.Name
}

// Upstream describes the tracking branch of a local branch.
type Upstream struct {
	Name string

	// Relationship is the free-form divergence note git prints after the
	// upstream name, e.g. "ahead 1, behind 2" or "gone". Empty when absent.
	Relationship string
}

// SplitUpstream splits the bracketed upstream descriptor of `git branch -vv`
// into the upstream name and its relationship.
//
//	"origin/main"                    -> {origin/main, ""}
//	"origin/main: ahead 1, behind 2" -> {origin/main, "ahead 1, behind 2"}
func SplitUpstream(descriptor string) Upstream {
	name, rel, found := strings.Cut(descriptor, ": ")
	if !found {
		return Upstream{Name: strings.TrimSpace(descriptor)}
	}
	return Upstream{
		Name:         strings.TrimSpace(name),
		Relationship: strings.TrimSpace(rel),
	}
}

// String renders the upstream the way git prints it inside the brackets.
func (u Upstream) String() string {
	if u.Relationship == "" {
		return u.Name
	}
	return u.Name + ": " + u.Relationship
}

// Remote returns the remote and the ref on that remote, for an upstream of the
// form "<remote>/<ref>". A ":<suffix>" on the ref is dropped.
func (u Upstream) Remote() (remote, ref string, ok bool) {
	remote, ref, ok = strings.Cut(u.Name, "/")
	if !ok || remote == "" || ref == "" {
		return "", "", false
	}
	if prefix, _, found := strings.Cut(ref, ":"); found {
		ref = prefix
	}
	return remote, ref, true
}

// RemoteBranch is one line of `git branch -r -v`.
type RemoteBranch struct {
	Name string
	Ref  RemoteRef
}

// BranchName returns the remote branch name, e.g. "origin/main".
func (b RemoteBranch) BranchName() string {
	return b.Name
}

// RemoteRef is what a remote branch points at: either a SymbolicRef or a
// CommitRef. The set is closed.
type RemoteRef interface {
	isRemoteRef()
}

// SymbolicRef is a remote head that aliases another ref
// ("origin/HEAD -> origin/main").
type SymbolicRef struct {
	Target string
}

// CommitRef is a remote head pointing at a commit.
type CommitRef struct {
	SHA     string
	Message string
}

func (SymbolicRef) isRemoteRef() {}
func (CommitRef) isRemoteRef()   {}

package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"

	"github.com/henri123lemoine/twig/internal/git"
	"github.com/henri123lemoine/twig/internal/view"
)

func TestVisibleRows(t *testing.T) {
	assert.Equal(t, 18, VisibleRows(30))
	assert.Equal(t, 8, VisibleRows(20))
	assert.Equal(t, 0, VisibleRows(MinHeight))
	assert.Equal(t, 0, VisibleRows(2))
}

func TestRenderError(t *testing.T) {
	out := Render(RenderParams{Width: 80, Height: 20, Err: "fatal: not a git repository"})

	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "fatal: not a git repository")
	assert.Contains(t, out, "press any key to continue")
	assert.NotContains(t, out, "Branch:")
}

func localList(n, current int) *view.List[git.LocalBranch] {
	records := make([]git.LocalBranch, n)
	for i := range records {
		records[i] = git.LocalBranch{
			Name:          fmt.Sprintf("branch-%02d", i),
			IsCurrent:     i == current,
			CommitSHA:     "0123456789abcdef",
			CommitMessage: fmt.Sprintf("message %02d", i),
		}
	}
	l := view.NewList(records)
	l.SelectBy(func(b git.LocalBranch) bool { return b.IsCurrent })
	return l
}

func TestRenderLocalWindow(t *testing.T) {
	out := Render(RenderParams{
		Tab:      TabLocal,
		Local:    localList(30, 1),
		Capacity: 3,
		Width:    120,
		Height:   20,
		Repo:     &git.Repo{Root: "/work/project", Head: "branch-01"},
		ShowSHA:  true,
	})

	for i := 0; i <= 3; i++ {
		assert.Contains(t, out, fmt.Sprintf("branch-%02d", i))
	}
	assert.NotContains(t, out, "branch-04", "only capacity+1 rows are drawn")
	assert.Contains(t, out, SymbolCurrent+" branch-01")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789", "SHAs are shortened")
	assert.Contains(t, out, "project "+SymbolCurrent+" branch-01")
	assert.Contains(t, out, "/work/project")
}

func TestRenderScrolledWindow(t *testing.T) {
	l := localList(30, -1)
	l.Move(20)
	l.Reconcile(3)

	out := Render(RenderParams{Local: l, Capacity: 3, Width: 120, Height: 20})
	assert.NotContains(t, out, "branch-16")
	assert.Contains(t, out, "branch-17")
	assert.Contains(t, out, SymbolCursor+" branch-20")
	assert.NotContains(t, out, "branch-21")
}

func TestRenderRemote(t *testing.T) {
	l := view.NewList([]git.RemoteBranch{
		{Name: "origin/HEAD", Ref: git.SymbolicRef{Target: "origin/main"}},
		{Name: "origin/main", Ref: git.CommitRef{SHA: "abc1234", Message: "Initial commit"}},
	})

	out := Render(RenderParams{Tab: TabRemote, Remote: l, Capacity: 5, Width: 120, Height: 20})
	assert.Contains(t, out, "-> origin/main")
	assert.Contains(t, out, "Initial commit")
	assert.Contains(t, out, "Ref / Message")
}

func TestRenderEmptyStates(t *testing.T) {
	tests := []struct {
		name   string
		params RenderParams
		want   string
	}{
		{"loading", RenderParams{Loading: true}, "Loading branches..."},
		{"no local match", RenderParams{Filtering: true, Query: "xyz", Local: view.NewList[git.LocalBranch](nil)}, `No branches match "xyz". Press ctrl+n to create it.`},
		{"no remote match", RenderParams{Tab: TabRemote, Filtering: true, Query: "xyz"}, `No branches match "xyz"`},
		{"no local branches", RenderParams{}, "No branches"},
		{"no remote branches", RenderParams{Tab: TabRemote}, "No remote branches"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Width = 120
			tt.params.Height = 20
			assert.Contains(t, Render(tt.params), tt.want)
		})
	}
}

func TestRenderQueryLine(t *testing.T) {
	out := Render(RenderParams{Query: "feat", Width: 80, Height: 20})
	assert.Contains(t, out, "Branch: feat|")
}

func TestRenderHelpWidth(t *testing.T) {
	help := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "switch")),
		key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "create")),
		key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc/ctrl+c", "quit")),
	}

	wide := Render(RenderParams{Width: 140, Height: 20, Help: help})
	assert.Contains(t, wide, "enter switch • ^b create • esc/^c quit")

	narrow := Render(RenderParams{Width: 60, Height: 20, Help: help})
	assert.NotContains(t, narrow, "enter switch")
	assert.Contains(t, narrow, "enter•^b•esc")
}

func TestHelpLineSkipsDisabledBindings(t *testing.T) {
	off := key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "force delete"))
	off.SetEnabled(false)
	help := []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		off,
	}

	assert.Equal(t, "^d delete", helpLine(help, 120))
	assert.Equal(t, "^d", helpLine(help, 80))
	assert.Empty(t, helpLine(nil, 120))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "ab", truncate("ab", 4))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "ab  ", pad("ab", 4))
	assert.True(t, strings.HasSuffix(pad("abcdef", 4), "…"))
}

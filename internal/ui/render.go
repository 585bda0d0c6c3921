package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/twig/internal/git"
	"github.com/henri123lemoine/twig/internal/view"
)

// Tab constants (matching app.Tab)
const (
	TabLocal = iota
	TabRemote
)

// RenderParams contains all parameters needed for rendering.
type RenderParams struct {
	Tab          int
	Query        string
	Local        *view.List[git.LocalBranch]
	Remote       *view.List[git.RemoteBranch]
	Filtering    bool
	Capacity     int
	Width        int
	Height       int
	Loading      bool
	SpinnerFrame string
	Err          string
	Repo         *git.Repo
	ShowUpstream bool
	ShowSHA      bool
	Help         []key.Binding // bindings listed in the help line
}

// MinWidth is the absolute minimum terminal width we try to support.
const MinWidth = 30

// MinHeight is the absolute minimum terminal height we try to support.
const MinHeight = 8

// chromeLines counts every line Render draws besides table rows: the box
// border and padding (4), tab bar, input, two dividers, table header,
// help and working directory.
const chromeLines = 11

// VisibleRows returns the list capacity for a terminal of the given height.
// The table draws capacity+1 rows.
func VisibleRows(height int) int {
	if height < MinHeight {
		height = MinHeight
	}
	n := height - chromeLines - 1
	if n < 0 {
		return 0
	}
	return n
}

// Render renders the full UI.
func Render(p RenderParams) string {
	if p.Width < MinWidth {
		p.Width = MinWidth
	}
	if p.Height < MinHeight {
		p.Height = MinHeight
	}

	if p.Err != "" {
		return renderError(p)
	}
	return renderTab(p)
}

// renderError replaces the whole screen while an error is set. Any key
// dismisses it.
func renderError(p RenderParams) string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Bold(true).Render("ERROR") + "\n")
	for _, line := range strings.Split(strings.TrimRight(p.Err, "\n"), "\n") {
		b.WriteString(NormalStyle.Render(line) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("press any key to continue"))
	return wrapInBox(b.String(), p.Width, p.Height)
}

func renderTab(p RenderParams) string {
	var b strings.Builder
	contentWidth := p.Width - 6 // box borders and padding

	b.WriteString(renderTabBar(p, contentWidth) + "\n")
	b.WriteString(HeaderStyle.Render("Branch: ") + NormalStyle.Render(p.Query) + CurrentStyle.Render("|") + "\n")
	b.WriteString(DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")

	if p.Tab == TabRemote {
		b.WriteString(renderRemoteTable(p, contentWidth))
	} else {
		b.WriteString(renderLocalTable(p, contentWidth))
	}

	b.WriteString("\n" + DividerStyle.Render(strings.Repeat(SymbolDivider, contentWidth)) + "\n")
	b.WriteString(HelpStyle.Render(truncate(helpLine(p.Help, p.Width), contentWidth)) + "\n")
	if p.Repo != nil {
		b.WriteString(PathStyle.Render(truncate(p.Repo.Root, contentWidth)))
	}

	return wrapInBox(b.String(), p.Width, p.Height)
}

func renderTabBar(p RenderParams, width int) string {
	local, remote := InactiveTabStyle.Render("Local"), InactiveTabStyle.Render("Remote")
	if p.Tab == TabRemote {
		remote = ActiveTabStyle.Render("Remote")
	} else {
		local = ActiveTabStyle.Render("Local")
	}
	left := local + "  " + remote

	var right string
	if p.Repo != nil {
		right = p.Repo.Name()
		if p.Repo.Head != "" {
			right += " " + SymbolCurrent + " " + p.Repo.Head
		}
		right = PathStyle.Render(right)
	}
	if p.Loading {
		right = p.SpinnerFrame + " " + right
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func renderLocalTable(p RenderParams, width int) string {
	if p.Local == nil || p.Local.Len() == 0 {
		return emptyRow(p)
	}
	start, end := p.Local.Window(p.Capacity)

	nameW, upW := len("Name"), len("Upstream")
	for _, br := range p.Local.Records {
		nameW = max(nameW, lipgloss.Width(br.Name))
		if br.Upstream != nil {
			upW = max(upW, lipgloss.Width(br.Upstream.String()))
		}
	}
	nameW = min(nameW, width/2)
	upW = min(upW, width/3)

	cols := []string{pad("Name", nameW)}
	if p.ShowUpstream {
		cols = append(cols, pad("Upstream", upW))
	}
	if p.ShowSHA {
		cols = append(cols, pad("SHA", shaWidth))
	}
	cols = append(cols, "Message")
	header := "  " + strings.Join(cols, "  ")

	var rows []string
	rows = append(rows, HeaderStyle.Render(truncate(header, width)))
	for i := start; i < end; i++ {
		br := p.Local.Records[i]
		cols := []string{pad(br.Name, nameW)}
		if p.ShowUpstream {
			up := ""
			if br.Upstream != nil {
				up = br.Upstream.String()
			}
			cols = append(cols, pad(up, upW))
		}
		if p.ShowSHA {
			cols = append(cols, pad(shortSHA(br.CommitSHA), shaWidth))
		}
		cols = append(cols, br.CommitMessage)

		marker := "  "
		if br.IsCurrent {
			marker = SymbolCurrent + " "
		}
		rows = append(rows, renderRow(marker, strings.Join(cols, "  "), i == p.Local.Selected, br.IsCurrent, width))
	}
	return strings.Join(rows, "\n")
}

func renderRemoteTable(p RenderParams, width int) string {
	if p.Remote == nil || p.Remote.Len() == 0 {
		return emptyRow(p)
	}
	start, end := p.Remote.Window(p.Capacity)

	nameW := len("Name")
	for _, br := range p.Remote.Records {
		nameW = max(nameW, lipgloss.Width(br.Name))
	}
	nameW = min(nameW, width/2)

	cols := []string{pad("Name", nameW)}
	if p.ShowSHA {
		cols = append(cols, pad("SHA", shaWidth))
	}
	cols = append(cols, "Ref / Message")
	header := "  " + strings.Join(cols, "  ")

	var rows []string
	rows = append(rows, HeaderStyle.Render(truncate(header, width)))
	for i := start; i < end; i++ {
		br := p.Remote.Records[i]
		cols := []string{pad(br.Name, nameW)}
		switch ref := br.Ref.(type) {
		case git.SymbolicRef:
			if p.ShowSHA {
				cols = append(cols, pad("", shaWidth))
			}
			cols = append(cols, "-> "+ref.Target)
		case git.CommitRef:
			if p.ShowSHA {
				cols = append(cols, pad(shortSHA(ref.SHA), shaWidth))
			}
			cols = append(cols, ref.Message)
		}
		rows = append(rows, renderRow("  ", strings.Join(cols, "  "), i == p.Remote.Selected, false, width))
	}
	return strings.Join(rows, "\n")
}

func renderRow(marker, text string, selected, current bool, width int) string {
	if selected && !current {
		marker = SymbolCursor + " "
	}
	line := truncate(marker+text, width)
	switch {
	case selected:
		return SelectedStyle.Render(line)
	case current:
		return CurrentStyle.Render(line)
	default:
		return NormalStyle.Render(line)
	}
}

func emptyRow(p RenderParams) string {
	switch {
	case p.Loading:
		return HelpStyle.Render(p.SpinnerFrame + " Loading branches...")
	case p.Filtering && p.Tab == TabLocal:
		return PathStyle.Render(fmt.Sprintf("No branches match %q. Press ctrl+n to create it.", p.Query))
	case p.Filtering:
		return PathStyle.Render(fmt.Sprintf("No branches match %q", p.Query))
	case p.Tab == TabLocal:
		return PathStyle.Render("No branches")
	default:
		return PathStyle.Render("No remote branches")
	}
}

const shaWidth = 8

func shortSHA(sha string) string {
	if len(sha) > shaWidth {
		return sha[:shaWidth]
	}
	return sha
}

func pad(s string, width int) string {
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// truncate shortens s to width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// wrapInBox wraps content in a bordered box.
func wrapInBox(content string, width, height int) string {
	boxWidth := width - 2
	if boxWidth < MinWidth-2 {
		boxWidth = MinWidth - 2
	}

	// Don't force height - let content determine size
	style := BoxStyle.Width(boxWidth)

	return style.Render(content)
}

// helpLine lists "key desc" for each binding, or only the first key of
// each when the terminal is narrow.
func helpLine(bindings []key.Binding, width int) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		if width < 100 {
			parts = append(parts, shortKey(b.Keys()[0]))
			continue
		}
		h := b.Help()
		parts = append(parts, shortKey(h.Key)+" "+h.Desc)
	}
	if width < 100 {
		return strings.Join(parts, "•")
	}
	return strings.Join(parts, " • ")
}

func shortKey(k string) string {
	return strings.ReplaceAll(k, "ctrl+", "^")
}

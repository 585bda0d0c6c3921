package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/henri123lemoine/twig/internal/config"
	"github.com/henri123lemoine/twig/internal/debug"
	"github.com/henri123lemoine/twig/internal/exec"
	"github.com/henri123lemoine/twig/internal/git"
	"github.com/henri123lemoine/twig/internal/ui"
	"github.com/henri123lemoine/twig/internal/view"
)

// Tab identifies which branch list is shown.
type Tab int

const (
	TabLocal Tab = iota
	TabRemote
)

func (t Tab) String() string {
	if t == TabRemote {
		return "remote"
	}
	return "local"
}

// Executor runs git commands. *git.Runner implements it.
type Executor interface {
	Next() uint64
	Run(ctx context.Context, dir string, seq uint64, c git.Command) git.Result
}

// Model is the main application model.
type Model struct {
	// Configuration
	config  *config.Config
	repo    *git.Repo
	runner  Executor
	backend exec.MultiplexerBackend
	keys    KeyMap

	// Data
	tab    Tab
	local  *view.Tab[git.LocalBranch]
	remote *view.Tab[git.RemoteBranch]

	// A tab lists its branches the first time it is shown.
	localInited  bool
	remoteInited bool

	// Set once a live listing has been applied; cached listings arriving
	// later are ignored.
	localLive  bool
	remoteLive bool

	// State
	err     string
	pending int
	spinner spinner.Model
	start   tea.Cmd

	// UI
	width  int
	height int

	shouldQuit bool
}

// New creates a new Model. The first listing of the start tab is issued
// by Init.
func New(cfg *config.Config, repo *git.Repo, runner Executor, ranker view.Ranker) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.ColorPrimary)

	m := Model{
		config:  cfg,
		repo:    repo,
		runner:  runner,
		backend: exec.BackendFor(cfg.Log.Surface),
		keys:    KeyMapFromConfig(&cfg.Keys),
		local:   view.NewTab[git.LocalBranch](ranker),
		remote:  view.NewTab[git.RemoteBranch](ranker),
		spinner: s,
	}
	if cfg.General.StartTab == TabRemote.String() {
		m.tab = TabRemote
	}
	m.start = m.ensureListed()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.start}
	if m.config.Cache.Enabled {
		cmds = append(cmds, loadCache(m.repo.Root))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		capacity := ui.VisibleRows(msg.Height)
		m.local.Resize(capacity)
		m.remote.Resize(capacity)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CommandResultMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m, m.handleResult(msg.Result)

	case CacheLoadedMsg:
		m.applyCache(msg)
		return m, nil

	case CacheSavedMsg:
		if msg.Err != nil {
			debug.Log("cache save failed: %v", msg.Err)
		}
		return m, nil

	case LogClosedMsg:
		if msg.Err != nil {
			m.err = msg.Err.Error()
		}
		return m, nil
	}

	return m, nil
}

// handleResult applies a finished command and returns any follow-up.
func (m *Model) handleResult(res git.Result) tea.Cmd {
	debug.Log("result #%d %s ok=%v", res.Seq, res.Tag, res.OK())

	if !res.OK() {
		m.err = res.Message()
		return nil
	}

	switch res.Tag {
	case git.TagListLocal:
		branches, err := git.ParseLocalListing(res.Stdout)
		if err != nil {
			debug.Log("local listing rejected: %v", err)
			m.err = err.Error()
			return nil
		}
		m.localLive = true
		m.local.Refresh(branches, isCurrent)
		m.err = ""
		m.syncHead(branches)
		if m.config.Cache.Enabled {
			return saveLocal(m.repo.Root, branches)
		}

	case git.TagListRemote:
		branches, err := git.ParseRemoteListing(res.Stdout)
		if err != nil {
			debug.Log("remote listing rejected: %v", err)
			m.err = err.Error()
			return nil
		}
		m.remoteLive = true
		m.remote.Refresh(branches, nil)
		m.err = ""
		if m.config.Cache.Enabled {
			return saveRemote(m.repo.Root, branches)
		}

	case git.TagSwitch, git.TagCreate, git.TagDelete, git.TagFetch:
		return m.run(git.ListLocal())

	case git.TagTrack:
		m.tab = TabLocal
		m.localInited = true
		return m.run(git.ListLocal())
	}
	return nil
}

// handleKeyPress handles key presses. While an error is shown, the first
// key only dismisses it.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != "" {
		m.err = ""
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shouldQuit = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextTab):
		if m.tab == TabLocal {
			m.tab = TabRemote
		} else {
			m.tab = TabLocal
		}
		return m, m.ensureListed()
	}

	var cmd tea.Cmd
	if m.tab == TabRemote {
		cmd = m.handleRemoteKeys(msg)
	} else {
		cmd = m.handleLocalKeys(msg)
	}
	return m, cmd
}

// handleLocalKeys handles key presses on the local tab.
func (m *Model) handleLocalKeys(msg tea.KeyMsg) tea.Cmd {
	t := m.local
	if handleNavigation(m.keys, t, msg) {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		if br, ok := m.selectedLocal("switch"); ok {
			return m.run(git.Switch(br.Name))
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.run(git.ListLocal())
	case key.Matches(msg, m.keys.Create):
		c, err := git.Create(t.Query())
		if err != nil {
			m.err = err.Error()
			return nil
		}
		return m.run(c)
	case key.Matches(msg, m.keys.Delete):
		if br, ok := m.selectedLocal("delete"); ok {
			return m.run(git.Delete(br.Name, false))
		}
	case key.Matches(msg, m.keys.ForceDelete):
		if br, ok := m.selectedLocal("delete"); ok {
			return m.run(git.Delete(br.Name, true))
		}
	case key.Matches(msg, m.keys.Log):
		if br, ok := m.selectedLocal("show log"); ok {
			return m.openLog(br.Name)
		}
	case key.Matches(msg, m.keys.SwitchPrevious):
		return m.run(git.SwitchPrevious())
	case key.Matches(msg, m.keys.Fetch):
		if br, ok := m.selectedLocal("fetch"); ok {
			c, err := git.Fetch(br)
			if err != nil {
				m.err = err.Error()
				return nil
			}
			return m.run(c)
		}
	}
	return nil
}

// handleRemoteKeys handles key presses on the remote tab.
func (m *Model) handleRemoteKeys(msg tea.KeyMsg) tea.Cmd {
	t := m.remote
	if handleNavigation(m.keys, t, msg) {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Confirm):
		if br, ok := m.selectedRemote("track"); ok {
			return m.run(git.Track(br))
		}
	case key.Matches(msg, m.keys.Refresh):
		return m.run(git.ListRemote())
	case key.Matches(msg, m.keys.Log):
		if br, ok := m.selectedRemote("show log"); ok {
			return m.openLog(br.Name)
		}
	}
	return nil
}

// handleNavigation applies movement and filter editing shared by both
// tabs. It reports whether msg was consumed.
func handleNavigation[T view.Named](keys KeyMap, t *view.Tab[T], msg tea.KeyMsg) bool {
	page := t.Capacity()
	if page < 1 {
		page = 1
	}

	switch {
	case key.Matches(msg, keys.Up):
		t.Move(-1)
	case key.Matches(msg, keys.Down):
		t.Move(1)
	case key.Matches(msg, keys.PageUp):
		t.Move(-page)
	case key.Matches(msg, keys.PageDown):
		t.Move(page)
	case key.Matches(msg, keys.Home):
		t.Move(-t.Len())
	case key.Matches(msg, keys.End):
		t.Move(t.Len())
	case key.Matches(msg, keys.ClearFilter):
		t.ClearQuery()
	case key.Matches(msg, keys.Erase):
		t.EraseRune()
	case msg.Type == tea.KeySpace:
		t.TypeRune(' ')
	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			t.TypeRune(r)
		}
	default:
		return false
	}
	return true
}

func (m *Model) selectedLocal(action string) (git.LocalBranch, bool) {
	br, ok := m.local.Selection()
	if !ok {
		m.err = (&git.PreconditionError{Action: action, Reason: "no branch selected"}).Error()
	}
	return br, ok
}

func (m *Model) selectedRemote(action string) (git.RemoteBranch, bool) {
	br, ok := m.remote.Selection()
	if !ok {
		m.err = (&git.PreconditionError{Action: action, Reason: "no branch selected"}).Error()
	}
	return br, ok
}

// ensureListed issues the first listing of the active tab.
func (m *Model) ensureListed() tea.Cmd {
	switch m.tab {
	case TabRemote:
		if !m.remoteInited {
			m.remoteInited = true
			return m.run(git.ListRemote())
		}
	default:
		if !m.localInited {
			m.localInited = true
			return m.run(git.ListLocal())
		}
	}
	return nil
}

// run issues c in the repository root. The result comes back as a
// CommandResultMsg.
func (m *Model) run(c git.Command) tea.Cmd {
	m.pending++
	seq := m.runner.Next()
	runner, dir := m.runner, m.repo.Root
	debug.Log("issue #%d %s", seq, c)
	return func() tea.Msg {
		return CommandResultMsg{Result: runner.Run(context.Background(), dir, seq, c)}
	}
}

// openLog shows `git log` for name. Without a multiplexer the UI is
// suspended while the log runs in this terminal.
func (m *Model) openLog(name string) tea.Cmd {
	c := git.Log(m.config.Log.Args, name)
	proc, foreground, err := exec.LogProcess(m.backend, m.config.General.GitBinary, m.repo.Root, c, m.config.Log.Floating)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	if foreground {
		return tea.ExecProcess(proc, func(err error) tea.Msg {
			return LogClosedMsg{Err: err}
		})
	}
	return func() tea.Msg {
		return LogClosedMsg{Err: proc.Run()}
	}
}

// applyCache shows cached listings until the live ones arrive.
func (m *Model) applyCache(msg CacheLoadedMsg) {
	if !m.localLive && len(msg.Local) > 0 {
		debug.Log("showing %d cached local branches", len(msg.Local))
		m.local.Refresh(msg.Local, isCurrent)
	}
	if !m.remoteLive && len(msg.Remote) > 0 {
		debug.Log("showing %d cached remote branches", len(msg.Remote))
		m.remote.Refresh(msg.Remote, nil)
	}
}

func (m *Model) syncHead(branches []git.LocalBranch) {
	for _, br := range branches {
		if br.IsCurrent {
			m.repo.Head = br.Name
			return
		}
	}
}

func isCurrent(b git.LocalBranch) bool {
	return b.IsCurrent
}

// View renders the UI.
func (m Model) View() string {
	p := ui.RenderParams{
		Tab:          int(m.tab),
		Width:        m.width,
		Height:       m.height,
		Capacity:     ui.VisibleRows(m.height),
		Loading:      m.pending > 0,
		SpinnerFrame: m.spinner.View(),
		Err:          m.err,
		Repo:         m.repo,
		ShowUpstream: m.config.UI.ShowUpstream,
		ShowSHA:      m.config.UI.ShowSHA,
		Help:         m.keys.HelpFor(m.tab),
	}
	if m.tab == TabRemote {
		p.Query = m.remote.Query()
		p.Filtering = m.remote.Filtering()
		p.Remote = m.remote.Active()
	} else {
		p.Query = m.local.Query()
		p.Filtering = m.local.Filtering()
		p.Local = m.local.Active()
	}
	return ui.Render(p)
}

// ShouldQuit returns true if the app should quit.
func (m Model) ShouldQuit() bool {
	return m.shouldQuit
}

// Err returns the error currently shown, or "".
func (m Model) Err() string {
	return m.err
}

// Commands

func loadCache(root string) tea.Cmd {
	return func() tea.Msg {
		cache := git.LoadCache(root)
		if cache == nil {
			return CacheLoadedMsg{}
		}
		var msg CacheLoadedMsg
		if local, err := cache.LocalBranches(); err == nil {
			msg.Local = local
		} else {
			debug.Log("cached local listing rejected: %v", err)
		}
		if remote, err := cache.RemoteBranches(); err == nil {
			msg.Remote = remote
		} else {
			debug.Log("cached remote listing rejected: %v", err)
		}
		return msg
	}
}

func saveLocal(root string, branches []git.LocalBranch) tea.Cmd {
	return func() tea.Msg {
		return CacheSavedMsg{Err: git.SaveLocal(root, branches)}
	}
}

func saveRemote(root string, branches []git.RemoteBranch) tea.Cmd {
	return func() tea.Msg {
		return CacheSavedMsg{Err: git.SaveRemote(root, branches)}
	}
}

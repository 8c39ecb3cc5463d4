// Package tui renders the dashboard widgets in the terminal with Bubble Tea.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/newtelco/dashboard/internal/apps"
	"github.com/newtelco/dashboard/internal/crm"
	"github.com/newtelco/dashboard/internal/directory"
	"github.com/newtelco/dashboard/internal/identity"
)

// Tab is one widget page.
type Tab int

const (
	TabDirectory Tab = iota
	TabProjects
	TabApps
)

var tabTitles = []string{"Directory", "Projects", "Apps"}

// ProjectLister lists CRM projects for an identity.
type ProjectLister interface {
	ListProjects(ctx context.Context, id *identity.Identity) ([]crm.Project, error)
}

// AppLister lists launcher tiles.
type AppLister interface {
	Categories(ctx context.Context) ([]string, error)
	List(ctx context.Context, category string) ([]apps.App, error)
}

// SessionLoader returns the current identity, nil when signed out.
type SessionLoader func() (*identity.Identity, error)

// Deps are the collaborators of the dashboard model.
type Deps struct {
	Directory *directory.State
	Projects  ProjectLister
	Apps      AppLister
	Session   SessionLoader
	Login     *LoginPrompt
	Logger    *slog.Logger
	Timeout   time.Duration
}

type identityMsg struct {
	id  *identity.Identity
	err error
}

type directoryMsg struct {
	result directory.Result
}

// viewMsg carries a directory snapshot published by the state. seq orders
// snapshots whose commands finish out of order.
type viewMsg struct {
	seq  uint64
	view directory.View
}

type projectsMsg struct {
	generation uint64
	items      []crm.Project
	err        error
}

type categoriesMsg struct {
	items []string
	err   error
}

type appsMsg struct {
	category string
	items    []apps.App
	err      error
}

type projectsState struct {
	generation uint64
	loading    bool
	login      bool
	items      []crm.Project
	err        string
}

type appsState struct {
	categories []string
	current    int
	loading    bool
	items      []apps.App
	err        string
}

// Model is the dashboard root model.
type Model struct {
	ctx  context.Context
	deps Deps

	tab      Tab
	search   textinput.Model
	spinner  spinner.Model
	styles   Styles
	mounted  bool
	identity *identity.Identity
	session  string

	views       chan viewMsg
	view        directory.View
	viewSeq     uint64
	unsubscribe func()

	projects projectsState
	apps     appsState

	width  int
	height int
}

// New builds the dashboard model.
func New(ctx context.Context, deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = 15 * time.Second
	}
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "⌕ "
	search.CharLimit = 64
	search.Focus()

	views := make(chan viewMsg, 1)
	var seq uint64
	unsubscribe := deps.Directory.Subscribe(func(v directory.View) {
		seq++
		offerView(views, viewMsg{seq: seq, view: v})
	})

	return Model{
		ctx:         ctx,
		deps:        deps,
		search:      search,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:      DefaultStyles(),
		views:       views,
		view:        deps.Directory.View(),
		unsubscribe: unsubscribe,
	}
}

// Close detaches the model from the directory state.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// offerView keeps only the newest unread snapshot in ch.
func offerView(ch chan viewMsg, msg viewMsg) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Init loads the session and the app categories.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadSession(), m.loadCategories(), m.spinner.Tick)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case identityMsg:
		return m.handleIdentity(msg)

	case directoryMsg:
		m.deps.Directory.Apply(m.ctx, msg.result)
		return m, m.nextView()

	case viewMsg:
		if msg.seq <= m.viewSeq {
			return m, nil
		}
		m.viewSeq = msg.seq
		m.view = msg.view
		m.deps.Logger.Debug("directory view changed",
			slog.String("phase", string(msg.view.Phase)),
			slog.Int("visible", len(msg.view.Visible)),
			slog.String("query", msg.view.Query))
		return m, nil

	case projectsMsg:
		if msg.generation != m.projects.generation {
			return m, nil
		}
		m.projects.loading = false
		if msg.err != nil {
			m.projects.login = true
			m.projects.err = msg.err.Error()
			return m, nil
		}
		m.projects.items = msg.items
		return m, nil

	case categoriesMsg:
		if msg.err != nil {
			m.apps.err = msg.err.Error()
			return m, nil
		}
		m.apps.categories = msg.items
		if len(msg.items) == 0 {
			return m, nil
		}
		cmd := m.loadApps(0)
		return m, cmd

	case appsMsg:
		if len(m.apps.categories) == 0 || msg.category != m.apps.categories[m.apps.current] {
			return m, nil
		}
		m.apps.loading = false
		if msg.err != nil {
			m.apps.err = msg.err.Error()
			return m, nil
		}
		m.apps.err = ""
		m.apps.items = msg.items
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabTitles))
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabTitles)) - 1) % Tab(len(tabTitles))
		return m, nil
	case "ctrl+r":
		return m, m.loadSession()
	}

	switch m.tab {
	case TabDirectory:
		var cmd tea.Cmd
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.deps.Directory.Search(m.search.Value())
			cmd = tea.Batch(cmd, m.nextView())
		}
		return m, cmd
	case TabApps:
		if n := len(m.apps.categories); n > 0 {
			switch msg.String() {
			case "right", "l":
				cmd := m.loadApps((m.apps.current + 1) % n)
				return m, cmd
			case "left", "h":
				cmd := m.loadApps((m.apps.current + n - 1) % n)
				return m, cmd
			}
		}
	}
	return m, nil
}

// handleIdentity mounts the widgets on first load and resets them whenever the
// session changes.
func (m Model) handleIdentity(msg identityMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.deps.Logger.Warn("load session failed", slog.Any("error", msg.err))
		m.session = msg.err.Error()
	} else {
		m.session = ""
	}
	if m.mounted && identity.Same(m.identity, msg.id) {
		return m, nil
	}
	m.mounted = true
	m.identity = msg.id
	m.search.Reset()

	var cmds []tea.Cmd
	if req := m.deps.Directory.SetIdentity(msg.id); req != nil {
		cmds = append(cmds, m.fetchDirectory(*req))
	}
	cmds = append(cmds, m.nextView())

	m.projects = projectsState{generation: m.projects.generation + 1}
	if msg.id == nil {
		m.projects.login = true
	} else {
		m.projects.loading = true
		cmds = append(cmds, m.fetchProjects(m.projects.generation, msg.id))
	}
	return m, tea.Batch(cmds...)
}

// nextView delivers the snapshot the state published during this update, if any.
// Subscribers run on the update loop, so the snapshot is queued before the
// command executes.
func (m Model) nextView() tea.Cmd {
	views := m.views
	return func() tea.Msg {
		select {
		case msg := <-views:
			return msg
		default:
			return nil
		}
	}
}

func (m Model) loadSession() tea.Cmd {
	load := m.deps.Session
	return func() tea.Msg {
		if load == nil {
			return identityMsg{}
		}
		id, err := load()
		return identityMsg{id: id, err: err}
	}
}

func (m Model) fetchDirectory(req directory.Request) tea.Cmd {
	state, parent, timeout := m.deps.Directory, m.ctx, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		return directoryMsg{result: state.Load(ctx, req)}
	}
}

func (m Model) fetchProjects(generation uint64, id *identity.Identity) tea.Cmd {
	lister, parent, timeout := m.deps.Projects, m.ctx, m.deps.Timeout
	return func() tea.Msg {
		if lister == nil {
			return projectsMsg{generation: generation}
		}
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		items, err := lister.ListProjects(ctx, id)
		return projectsMsg{generation: generation, items: items, err: err}
	}
}

func (m Model) loadCategories() tea.Cmd {
	lister, parent, timeout := m.deps.Apps, m.ctx, m.deps.Timeout
	return func() tea.Msg {
		if lister == nil {
			return categoriesMsg{}
		}
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		items, err := lister.Categories(ctx)
		return categoriesMsg{items: items, err: err}
	}
}

// loadApps switches to the category at index and fetches its tiles. Call it
// before returning m so the mutation is visible in the returned model.
func (m *Model) loadApps(index int) tea.Cmd {
	m.apps.current = index
	m.apps.loading = true
	category := m.apps.categories[index]
	lister, parent, timeout := m.deps.Apps, m.ctx, m.deps.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		items, err := lister.List(ctx, category)
		return appsMsg{category: category, items: items, err: err}
	}
}

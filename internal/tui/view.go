package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/newtelco/dashboard/internal/apps"
	"github.com/newtelco/dashboard/internal/directory"
)

const (
	loginTitle  = "Login to view contact directory"
	emptyResult = "No colleagues found"
	helpLine    = "tab switch widget • ctrl+r reload session • esc quit"
)

// View renders the active tab.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case TabDirectory:
		b.WriteString(m.directoryView())
	case TabProjects:
		b.WriteString(m.projectsView())
	case TabApps:
		b.WriteString(m.appsView())
	}

	if m.session != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("session: " + m.session))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(helpLine))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, len(tabTitles))
	for i, title := range tabTitles {
		if Tab(i) == m.tab {
			parts[i] = m.styles.ActiveTab.Render(title)
		} else {
			parts[i] = m.styles.Tab.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) directoryView() string {
	view := m.view
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	switch view.Phase {
	case directory.PhaseIdle, directory.PhaseLoading:
		b.WriteString(m.spinner.View() + " Loading colleagues")
	case directory.PhaseLoginRequired:
		b.WriteString(m.loginView(view.ErrorMessage))
	case directory.PhaseFailed:
		b.WriteString(m.styles.Error.Render("Directory unavailable: " + view.ErrorMessage))
	case directory.PhaseReady:
		if len(view.Visible) == 0 {
			b.WriteString(m.styles.Muted.Render(emptyResult))
			break
		}
		b.WriteString(m.renderContacts(view.Visible))
	}
	return b.String()
}

func (m Model) loginView(message string) string {
	lines := []string{m.styles.Title.Render(loginTitle)}
	if message != "" {
		lines = append(lines, m.styles.Error.Render(message))
	}
	if m.deps.Login != nil {
		lines = append(lines, m.styles.Muted.Render("Sign in at "+m.deps.Login.URL()+" then press ctrl+r"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderContacts(records []directory.ContactRecord) string {
	perRow := 1
	if w := m.styles.Card.GetWidth() + 2; m.width > w {
		perRow = max(m.width/w, 1)
	}
	var rows []string
	for start := 0; start < len(records); start += perRow {
		end := min(start+perRow, len(records))
		cards := make([]string, 0, end-start)
		for _, rec := range records[start:end] {
			cards = append(cards, m.renderContact(rec))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderContact(rec directory.ContactRecord) string {
	lines := []string{m.styles.Name.Render(rec.Name)}
	if rec.Position != "" {
		lines = append(lines, m.styles.Muted.Render(rec.Position))
	}
	if rec.Department != "" {
		lines = append(lines, m.styles.Muted.Render(rec.Department))
	}
	for _, phone := range rec.Phones {
		lines = append(lines, m.styles.Detail.Render("☎ "+phone))
	}
	if rec.Email != "" {
		lines = append(lines, m.styles.Detail.Render("✉ "+rec.Email))
	}
	return m.styles.Card.Render(strings.Join(lines, "\n"))
}

func (m Model) projectsView() string {
	p := m.projects
	switch {
	case p.loading:
		return m.spinner.View() + " Loading projects"
	case p.login:
		lines := []string{m.styles.Title.Render("Login to view open projects")}
		if p.err != "" {
			lines = append(lines, m.styles.Error.Render(p.err))
		}
		return strings.Join(lines, "\n")
	case len(p.items) == 0:
		return m.styles.Muted.Render("No open projects")
	}
	lines := make([]string, 0, len(p.items))
	for _, item := range p.items {
		line := m.styles.Name.Render(item.Name)
		if item.Company != "" {
			line += m.styles.Muted.Render(" · " + item.Company)
		}
		if item.Status != "" {
			line += m.styles.Detail.Render(fmt.Sprintf(" [%s]", item.Status))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) appsView() string {
	a := m.apps
	if a.err != "" {
		return m.styles.Error.Render(a.err)
	}
	if len(a.categories) == 0 {
		return m.styles.Muted.Render("No apps configured")
	}
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("← %s →", a.categories[a.current])))
	b.WriteString("\n")
	if a.loading {
		b.WriteString(m.spinner.View())
		return b.String()
	}
	b.WriteString(m.renderTiles(a.items))
	return b.String()
}

// renderTiles lays the tiles out in rows of three.
func (m Model) renderTiles(items []apps.App) string {
	const perRow = 3
	var rows []string
	for start := 0; start < len(items); start += perRow {
		end := min(start+perRow, len(items))
		tiles := make([]string, 0, perRow)
		for _, app := range items[start:end] {
			tiles = append(tiles, m.renderTile(app))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderTile(app apps.App) string {
	style := m.styles.Card.Width(24)
	if app.Placeholder() {
		return style.Render(m.styles.Placeholder.Render("·"))
	}
	body := m.styles.Name.Render(app.Name)
	if app.Desc != "" {
		body += "\n" + m.styles.Muted.Render(app.Desc)
	}
	if host := app.Host(); host != "" {
		body += "\n" + m.styles.Detail.Render(host)
	}
	return style.Render(body)
}

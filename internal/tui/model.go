// Package tui renders a catalog browser in the terminal. The browser runs locally
// against any domain.MovieCatalog, usually the HTTP client.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metinatakli/movie-catalog/internal/catalog"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

var (
	primaryColor   = lipgloss.Color("#E50914")
	secondaryColor = lipgloss.Color("#F5F5F1")
	accentColor    = lipgloss.Color("#564D4D")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Width(72)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1).
			Width(72)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	horrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8B0000"))

	helpStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

const (
	stateList = iota
	stateDetail
)

// Catalog is what the terminal browser reads from.
type Catalog interface {
	domain.MovieCatalog
	GetById(ctx context.Context, id string) (*domain.Movie, error)
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Genre    key.Binding
	PageSize key.Binding
	Open     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Next:     key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/n", "next page")),
	Prev:     key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/p", "previous page")),
	Genre:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "genre")),
	PageSize: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "page size")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type viewMsg catalog.View

type viewsClosedMsg struct{}

type navigateMsg domain.PageRef

type detailMsg struct {
	movie *domain.Movie
	err   error
}

// Model is the bubbletea model of the terminal browser.
type Model struct {
	ctx         context.Context
	source      Catalog
	browser     *catalog.Browser
	views       <-chan catalog.View
	unsubscribe func()
	navigator   *navigator

	state     int
	view      catalog.View
	cursor    int
	detail    *domain.Movie
	err       error
	spinner   spinner.Model
	paginator paginator.Model
}

// New mounts a catalog browser on source for the lifetime of ctx.
func New(ctx context.Context, source Catalog, pageSize int, logger *slog.Logger) (*Model, error) {
	nav := newNavigator()
	browser := catalog.NewBrowser(source, nav, logger)

	// Set before mounting so the first reload already reads pages of this size.
	err := browser.Movies.SetPageSize(pageSize)
	if err != nil {
		return nil, err
	}

	views, unsubscribe := browser.Movies.Subscribe()
	browser.Mount(ctx)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.PerPage = 1

	return &Model{
		ctx:         ctx,
		source:      source,
		browser:     browser,
		views:       views,
		unsubscribe: unsubscribe,
		navigator:   nav,
		state:       stateList,
		view:        browser.Movies.View(),
		spinner:     sp,
		paginator:   pg,
	}, nil
}

// Close unmounts the browser.
func (m *Model) Close() {
	m.unsubscribe()
	m.browser.Unmount()
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForView(m.views),
		waitForNavigation(m.navigator),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case viewMsg:
		m.view = catalog.View(msg)
		m.cursor = min(m.cursor, max(len(m.view.Movies)-1, 0))
		m.paginator.SetTotalPages(m.view.TotalPages)
		m.paginator.Page = m.view.State.CurrentPage - 1
		return m, waitForView(m.views)

	case viewsClosedMsg:
		return m, nil

	case navigateMsg:
		return m, tea.Batch(
			loadDetail(m.ctx, m.source, msg.RecordID),
			waitForNavigation(m.navigator),
		)

	case detailMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.detail = msg.movie
		m.state = stateDetail
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return tea.Quit
	}

	if m.state == stateDetail {
		if key.Matches(msg, keys.Back) {
			m.state = stateList
			m.detail = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.view.Movies)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Next):
		if m.browser.Movies.NextPage() {
			m.cursor = 0
		}
	case key.Matches(msg, keys.Prev):
		if m.browser.Movies.PrevPage() {
			m.cursor = 0
		}
	case key.Matches(msg, keys.Genre):
		m.cursor = 0
		m.browser.Genres.Select(m.nextGenre())
	case key.Matches(msg, keys.PageSize):
		m.cursor = 0
		err := m.browser.Movies.SetPageSize(m.nextPageSize())
		if err != nil {
			m.err = err
		}
	case key.Matches(msg, keys.Open):
		if len(m.view.Movies) > 0 {
			m.browser.Movies.Open(m.ctx, m.view.Movies[m.cursor].ID)
		}
	}

	return nil
}

// nextGenre cycles through the genre options, wrapping to the all-genres option.
func (m *Model) nextGenre() string {
	options := m.browser.Genres.Options()
	if len(options) == 0 {
		return ""
	}

	selected := m.browser.Genres.Selected()
	i := slices.IndexFunc(options, func(o domain.GenreOption) bool { return o.Value == selected })

	return options[(i+1)%len(options)].Value
}

func (m *Model) nextPageSize() int {
	i := slices.Index(domain.PageSizeOptions, m.view.State.PageSize)
	return domain.PageSizeOptions[(i+1)%len(domain.PageSizeOptions)]
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Movie Catalog"))
	b.WriteString("\n")

	if m.state == stateDetail && m.detail != nil {
		b.WriteString(detailStyle.Render(renderDetail(m.detail)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(renderHelp(keys.Back, keys.Quit)))
		return b.String()
	}

	b.WriteString(statusStyle.Render(m.renderStatus()))
	b.WriteString("\n")
	b.WriteString(listStyle.Render(m.renderMovies()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(renderHelp(keys.Up, keys.Down, keys.Prev, keys.Next, keys.Genre, keys.PageSize, keys.Open, keys.Quit)))

	return b.String()
}

func (m *Model) renderStatus() string {
	genre := m.view.State.SelectedGenre
	if genre == "" {
		genre = catalog.AllGenresLabel
	}

	pageSize := fmt.Sprint(m.view.State.PageSize)
	if m.view.State.PageSize == domain.AllRecords {
		pageSize = "All"
	}

	status := fmt.Sprintf("%s · %d movies · %s per page · page %s",
		genre, m.view.State.TotalCount, pageSize, m.paginator.View())

	if m.view.Loading {
		status += " " + m.spinner.View()
	}

	return status
}

func (m *Model) renderMovies() string {
	if !m.view.HasMovies {
		if m.view.Loading {
			return "Loading movies..."
		}
		return "No movies found"
	}

	lines := make([]string, len(m.view.Movies))

	for i, movie := range m.view.Movies {
		line := fmt.Sprintf("%-40s %-16s %5s", truncate(movie.Title, 40), truncate(movie.Genre, 16), movie.Rating.StringFixed(1))

		switch {
		case i == m.cursor:
			line = selectedStyle.Render("> " + line)
		case movie.IsHorror:
			line = horrorStyle.Render("  " + line)
		default:
			line = "  " + line
		}

		lines[i] = line
	}

	return strings.Join(lines, "\n")
}

func renderDetail(movie *domain.Movie) string {
	summary := domain.NewMovieSummary(movie)

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", selectedStyle.Render(movie.Title))
	fmt.Fprintf(&b, "Rating: %s\n", movie.Rating.StringFixed(1))
	if summary.Genre != "" {
		fmt.Fprintf(&b, "Genre:  %s\n", summary.Genre)
	}
	fmt.Fprintf(&b, "Poster: %s\n", summary.PosterUrl)
	if movie.TMDBMovieID != nil {
		fmt.Fprintf(&b, "TMDB:   %s\n", *movie.TMDBMovieID)
	}
	if movie.Description != "" {
		fmt.Fprintf(&b, "\n%s", movie.Description)
	}

	return b.String()
}

func renderHelp(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, binding := range bindings {
		help := binding.Help()
		parts[i] = help.Key + " " + help.Desc
	}

	return strings.Join(parts, " • ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-1]) + "…"
}

func waitForView(views <-chan catalog.View) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg(view)
	}
}

func waitForNavigation(nav *navigator) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg(<-nav.requests)
	}
}

func loadDetail(ctx context.Context, source Catalog, movieID string) tea.Cmd {
	return func() tea.Msg {
		movie, err := source.GetById(ctx, movieID)
		if errors.Is(err, domain.ErrRecordNotFound) {
			err = fmt.Errorf("movie %s no longer exists", movieID)
		}
		return detailMsg{movie: movie, err: err}
	}
}

package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"ghsearch/internal/config"
	"ghsearch/internal/domain"
	"ghsearch/internal/eventbus"
	"ghsearch/internal/ui/logic"
	"ghsearch/internal/ui/views"
)

const statusTimeout = 3 * time.Second

// QueryController accepts queries and exposes the current search state
type QueryController interface {
	SetQuery(query string)
	State() domain.SearchState
}

// BrowserOpener opens a URL outside the terminal
type BrowserOpener interface {
	Browse(url string) error
}

// Model represents the UI state
type Model struct {
	controller QueryController
	bus        eventbus.EventBus
	config     *config.Config
	cfgSvc     config.ConfigService
	browser    BrowserOpener

	input    textinput.Model
	query    string // last value handed to the controller
	inputSeq int    // bumped on every edit so older debounce timers are ignored
	debounce time.Duration
	search   domain.SearchState

	navigator *logic.Navigator
	width     int
	height    int

	help     help.Model
	keys     KeyMap
	renderer *views.Renderer

	showHelp      bool
	inPagerMode   bool
	ticking       bool // a spinner tick is pending
	statusMessage string
	statusID      int

	// Program reference for terminal management
	program *tea.Program
	helpOps *HelpOps
}

// NewModel creates a new UI model. cfgSvc and browser may be nil, in which case
// theme changes are not persisted and repositories cannot be opened.
func NewModel(controller QueryController, bus eventbus.EventBus, cfg *config.Config, cfgSvc config.ConfigService, browser BrowserOpener) *Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. language:go stars:>1000"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		logrus.WithError(err).Warn("invalid debounce, searching on every keystroke")
		debounce = 0
	}

	return &Model{
		controller: controller,
		bus:        bus,
		config:     cfg,
		cfgSvc:     cfgSvc,
		browser:    browser,
		input:      ti,
		debounce:   debounce,
		search:     controller.State(),
		help:       help.New(),
		keys:       DefaultKeyMap(),
		navigator:  logic.NewNavigator(),
		renderer:   views.NewRenderer(cfg.IsDark()),
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin())
}

// spin arms the spinner tick while a search is loading and the screen is ours
func (m *Model) spin() tea.Cmd {
	if m.ticking || !m.search.IsLoading || m.inPagerMode {
		return nil
	}
	m.ticking = true
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 12
		m.navigator.SetViewportHeight(views.VisibleRows(msg.Height))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		m.search = msg.State
		m.navigator.SetTotal(len(msg.State.Results))
		return m, m.spin()

	case debounceMsg:
		if msg.seq == m.inputSeq && m.input.Value() != m.query {
			m.submit(m.input.Value())
		}
		return m, nil

	case tickMsg:
		m.ticking = false
		return m, m.spin()

	case browserOpenedMsg:
		if m.bus != nil {
			m.bus.Publish(eventbus.RepositoryOpenedEvent{FullName: msg.fullName, URL: msg.url, Err: msg.err})
		}
		if msg.err != nil {
			logrus.WithError(msg.err).WithField("url", msg.url).Error("failed to open browser")
			return m, m.setStatus(fmt.Sprintf("Could not open %s: %v", msg.fullName, msg.err))
		}
		return m, m.setStatus("Opened " + msg.fullName)

	case configSavedMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Error("failed to save theme")
			return m, m.setStatus(fmt.Sprintf("Could not save theme: %v", msg.err))
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spin()

	case helpPagerMsg:
		if msg.err != nil {
			logrus.WithError(msg.err).Warn("help pager failed, showing inline help")
			m.showHelp = true
		}
		return m, nil
	}

	// cursor blink and anything else the input understands
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit), msg.String() == "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.program != nil {
			return m, m.fetchHelpPager(NewHelpRenderer().RenderHelpContent())
		}
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.navigator.Move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.navigator.Move(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.navigator.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.navigator.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m, m.openSelected()

	case key.Matches(msg, m.keys.Theme):
		return m, m.toggleTheme()

	case key.Matches(msg, m.keys.Search):
		m.inputSeq++
		m.submit(m.input.Value())
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	m.inputSeq++
	if m.debounce <= 0 {
		m.submit(m.input.Value())
		return m, cmd
	}
	seq := m.inputSeq
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	}))
}

// submit hands the query to the controller and resets the selection
func (m *Model) submit(query string) {
	m.query = query
	m.navigator.Reset()
	m.controller.SetQuery(query)
}

func (m *Model) openSelected() tea.Cmd {
	selected := m.navigator.GetSelectedIndex()
	if m.browser == nil || selected >= len(m.search.Results) {
		return nil
	}
	repo := m.search.Results[selected]
	url := repo.HTMLURL()
	browser := m.browser
	return func() tea.Msg {
		return browserOpenedMsg{fullName: repo.FullName, url: url, err: browser.Browse(url)}
	}
}

// toggleTheme swaps the palette and writes the choice back to the config file
func (m *Model) toggleTheme() tea.Cmd {
	theme := m.config.ToggleTheme()
	m.renderer = views.NewRenderer(m.config.IsDark())
	if m.bus != nil {
		m.bus.Publish(eventbus.ThemeChangedEvent{Dark: m.config.IsDark()})
	}

	if m.cfgSvc == nil {
		return nil
	}
	// only the theme is written; flag overrides stay out of the file
	svc := m.cfgSvc
	return func() tea.Msg {
		onDisk, err := svc.Load()
		if err != nil {
			return configSavedMsg{err: err}
		}
		onDisk.UISettings.Theme = theme
		return configSavedMsg{err: svc.Save(onDisk)}
	}
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.statusID++
	m.statusMessage = text
	id := m.statusID
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	program := m.program
	helpOps := m.helpOps
	return func() tea.Msg {
		program.Send(pauseRenderingMsg{})
		err := helpOps.ShowHelpInPager(helpContent)
		program.Send(resumeRenderingMsg{})
		return helpPagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	return m.renderer.Render(views.ViewState{
		Width:          m.width,
		Height:         m.height,
		Input:          m.input.View(),
		Query:          m.query,
		Search:         m.search,
		SelectedIndex:  m.navigator.GetSelectedIndex(),
		ViewportOffset: m.navigator.GetViewportOffset(),
		StatusMessage:  m.statusMessage,
		ShowHelp:       m.showHelp,
		HelpContent:    NewHelpRenderer().RenderHelpContent(),
		HelpModel:      m.help,
		KeyMap:         m.keys,
	})
}

// Query returns the last query handed to the controller
func (m *Model) Query() string {
	return m.query
}

// Selected returns the index of the selected repository
func (m *Model) Selected() int {
	return m.navigator.GetSelectedIndex()
}

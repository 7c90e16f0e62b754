package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"openingfinder/internal/config"
	"openingfinder/internal/domain"
	"openingfinder/internal/logic"
	"openingfinder/internal/ui/input"
	inputtypes "openingfinder/internal/ui/input/types"
	"openingfinder/internal/ui/services/action"
	"openingfinder/internal/ui/services/notify"
	"openingfinder/internal/ui/services/query"
	"openingfinder/internal/ui/views"
)

// Messages shown for UI-local outcomes
const (
	msgCopied           = "Copied opening to clipboard."
	msgClipboardFailed  = "Clipboard is not available."
	msgPagerFailed      = "Unable to open the details viewer."
	msgConfigSaveFailed = "Could not save settings."
)

// maxDots is the page count above which the paginator switches to "x/y"
const maxDots = 12

// Deps are the services the model drives
type Deps struct {
	Context  context.Context
	Config   *config.Config
	Configs  config.ConfigService
	Query    *query.Service
	Actions  *action.Service
	Notifier *notify.Channel
	Applied  logic.AppliedStore
	Pager    Pager
	Logger   zerolog.Logger
}

// Model represents the UI state
type Model struct {
	ctx      context.Context
	config   *config.Config
	configs  config.ConfigService
	query    *query.Service
	actions  *action.Service
	notifier *notify.Channel
	applied  logic.AppliedStore
	pager    Pager
	log      zerolog.Logger

	width       int
	height      int
	selected    int
	showHelp    bool
	inPagerMode bool
	configDirty bool // page size changed since start

	inputHandler *input.Handler
	renderer     *views.Renderer
	help         help.Model
	keys         keyMap
	spinner      spinner.Model
	paginator    paginator.Model

	copyToClipboard func(string) error

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(d Deps) *Model {
	ctx := d.Context
	if ctx == nil {
		ctx = context.Background()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	pg := paginator.New()
	pg.Type = paginator.Dots
	pg.ActiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Render("•")
	pg.InactiveDot = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("•")

	state := d.Query.Snapshot()

	return &Model{
		ctx:             ctx,
		config:          d.Config,
		configs:         d.Configs,
		query:           d.Query,
		actions:         d.Actions,
		notifier:        d.Notifier,
		applied:         d.Applied,
		pager:           d.Pager,
		log:             d.Logger.With().Str("component", "ui").Logger(),
		inputHandler:    input.New(state.Query.Text),
		renderer:        views.NewRenderer(),
		help:            help.New(),
		keys:            newKeyMap(),
		spinner:         sp,
		paginator:       pg,
		copyToClipboard: clipboard.WriteAll,
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if ov, ok := m.pager.(*OvPager); ok {
		ov.SetProgram(p)
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
				return m, nil
			case "ctrl+c":
				return m, m.quit(false)
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	state := m.query.Snapshot()
	m.clampSelection(len(state.Items))

	mode := m.inputHandler.CurrentMode()
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		InputMode:     mode.String(),
		TextInput:     m.inputHandler.TextInput().View(),
		Items:         state.Items,
		Applied:       make(map[int64]bool, len(state.Items)),
		SelectedIndex: m.selected,
		PageIndex:     state.Query.PageIndex,
		PageSize:      state.Query.PageSize,
		TotalPages:    state.TotalPages,
		TotalElements: state.TotalElements,
		Loading:       state.Loading,
		Loaded:        state.Loaded,
		Spinner:       m.spinner.View(),
		Notification:  m.notifier.Current(),
		ShowHelp:      m.showHelp,
		HelpView:      m.help.View(modeKeys{keys: m.keys, mode: mode}),
		UserID:        m.actions.UserID(),
	}
	for _, o := range state.Items {
		vs.Applied[o.ID] = m.isApplied(o.ID)
	}

	if state.TotalPages > 1 {
		m.paginator.Type = paginator.Dots
		if state.TotalPages > maxDots {
			m.paginator.Type = paginator.Arabic
		}
		m.paginator.TotalPages = state.TotalPages
		m.paginator.Page = state.Query.PageIndex
		if m.paginator.Page >= state.TotalPages {
			m.paginator.Page = state.TotalPages - 1
		}
		vs.Paginator = m.paginator.View()
	}
	return vs
}

func (m *Model) inputContext() *input.ModelContext {
	state := m.query.Snapshot()
	m.clampSelection(len(state.Items))
	return &input.ModelContext{
		Selected:       m.selected,
		Items:          len(state.Items),
		Page:           state.Query.PageIndex,
		Pages:          state.TotalPages,
		NotificationUp: m.notifier.Current().Visible,
	}
}

func (m *Model) clampSelection(count int) {
	if m.selected >= count {
		m.selected = count - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// selectedOpening returns the opening under the cursor
func (m *Model) selectedOpening() (domain.Opening, bool) {
	items := m.query.Snapshot().Items
	m.clampSelection(len(items))
	if len(items) == 0 {
		return domain.Opening{}, false
	}
	return items[m.selected], true
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	m.log.Debug().Str("action", action.Type()).Msg("processing action")

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		count := len(m.query.Snapshot().Items)
		switch a.Direction {
		case "up":
			m.selected--
		case "down":
			m.selected++
		}
		m.clampSelection(count)

	case inputtypes.PageAction:
		state := m.query.Snapshot()
		index := state.Query.PageIndex
		switch a.Direction {
		case "prev":
			index--
		case "next":
			index++
		case "first":
			index = 0
		case "last":
			index = state.TotalPages - 1
		}
		if index < 0 {
			index = 0
		}
		m.selected = 0
		if err := m.query.SetPageIndex(index); err != nil {
			m.log.Debug().Err(err).Int("page", index).Msg("ignoring page change")
		}

	case inputtypes.ChangeModeAction:
		if a.Mode == inputtypes.ModeBrowse {
			m.clampSelection(len(m.query.Snapshot().Items))
		}

	case inputtypes.UpdateTextAction:
		m.selected = 0
		m.query.SetText(a.Text)

	case inputtypes.ApplyAction:
		o, ok := m.selectedOpening()
		if !ok {
			return nil
		}
		return m.apply(o)

	case inputtypes.ShowDetailsAction:
		o, ok := m.selectedOpening()
		if !ok {
			return nil
		}
		return m.showDetails(o)

	case inputtypes.CopyAction:
		o, ok := m.selectedOpening()
		if !ok {
			return nil
		}
		return m.copyOpening(o)

	case inputtypes.ResizePageAction:
		size := m.query.Snapshot().Query.PageSize + a.Delta
		if err := m.query.SetPageSize(size); err != nil {
			m.log.Debug().Err(err).Int("size", size).Msg("ignoring page size change")
			return nil
		}
		m.config.UISettings.PageSize = size
		m.configDirty = true

	case inputtypes.RefreshAction:
		m.query.Refresh()

	case inputtypes.DismissNotificationAction:
		m.notifier.Dismiss()

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp

	case inputtypes.QuitAction:
		return m.quit(!a.Force)
	}

	return nil
}

// apply returns a command that applies for o off the UI goroutine
func (m *Model) apply(o domain.Opening) tea.Cmd {
	userID := m.actions.UserID()
	return func() tea.Msg {
		res := m.actions.Apply(m.ctx, o.ID, userID)
		return applyResultMsg{openingID: o.ID, result: res}
	}
}

// showDetails returns a command that shows o in the pager
func (m *Model) showDetails(o domain.Opening) tea.Cmd {
	content := views.RenderDetails(o, m.isApplied(o.ID))
	return func() tea.Msg {
		if m.pager == nil {
			return detailsPagerMsg{openingID: o.ID, err: errProgramNotSet}
		}
		if m.program != nil {
			m.program.Send(pauseRenderingMsg{})
			defer m.program.Send(resumeRenderingMsg{})
		}
		return detailsPagerMsg{openingID: o.ID, err: m.pager.Show(content)}
	}
}

func (m *Model) copyOpening(o domain.Opening) tea.Cmd {
	text := views.Summary(o)
	return func() tea.Msg {
		return clipboardMsg{openingID: o.ID, err: m.copyToClipboard(text)}
	}
}

func (m *Model) isApplied(id int64) bool {
	if m.applied == nil {
		return false
	}
	_, ok := m.applied.AppliedAt(id)
	return ok
}

func (m *Model) quit(save bool) tea.Cmd {
	return func() tea.Msg { return quitMsg{saveConfig: save} }
}

// handleNonKeyboardMsg processes everything that is not a key press
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		// services changed; the next View re-reads their snapshots
		switch e := msg.Event.(type) {
		case domain.ResultsUpdatedEvent:
			m.clampSelection(e.Count)
		case domain.ConfigSavedEvent:
			m.log.Info().Str("path", e.Path).Msg("settings saved")
		}
		return m, nil

	case spinner.TickMsg:
		if m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case applyResultMsg:
		m.log.Debug().Int64("opening", msg.openingID).Bool("ok", msg.result.OK).Msg("apply finished")
		return m, nil

	case detailsPagerMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Int64("opening", msg.openingID).Msg("details pager failed")
			m.notifier.Show(msgPagerFailed, domain.SeverityWarning)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("clipboard write failed")
			m.notifier.Show(msgClipboardFailed, domain.SeverityWarning)
			return m, nil
		}
		m.notifier.Show(msgCopied, domain.SeveritySuccess)
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.spinner.Tick

	case quitMsg:
		if msg.saveConfig {
			m.saveConfig()
		}
		return m, tea.Quit

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m, nil
	}
}

// saveConfig persists UI settings changed during the session. Only the page
// size is merged into the file so flag and env overrides stay out of it.
func (m *Model) saveConfig() {
	if !m.configDirty || m.configs == nil || !m.config.UISettings.AutosaveOnExit {
		return
	}
	stored, err := m.configs.Load()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to read config before saving")
		m.notifier.Show(msgConfigSaveFailed, domain.SeverityError)
		return
	}
	stored.UISettings.PageSize = m.config.UISettings.PageSize
	if err := m.configs.Save(stored); err != nil {
		m.log.Error().Err(err).Msg("failed to save config")
		m.notifier.Show(msgConfigSaveFailed, domain.SeverityError)
		return
	}
	m.configDirty = false
}

// internal/ui/model.go
// Root Model struct, constructor, and Init
package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/search"
	"github.com/nhath/irfinder/internal/ui/autocomplete"
	"github.com/nhath/irfinder/internal/ui/components/ambiguity"
	"github.com/nhath/irfinder/internal/ui/components/companybrowser"
	"github.com/nhath/irfinder/internal/ui/components/historylist"
	"github.com/nhath/irfinder/internal/ui/components/popup"
	"github.com/nhath/irfinder/internal/ui/components/profileselector"
	"github.com/nhath/irfinder/internal/ui/components/suggestions"
	eztable "github.com/nhath/irfinder/internal/ui/components/table"
	"github.com/nhath/irfinder/internal/ui/highlight"
)

// Model is the root Bubble Tea model
type Model struct {
	// Core state
	width, height int
	config        *config.Config
	profile       *config.Profile
	backend       Backend
	newBackend    BackendFactory
	historyStore  HistoryStore
	saveConfig    func(*config.Config) error

	// Form
	prompt       textinput.Model
	companyInput textinput.Model
	focus        Focus

	// Company autocomplete
	ac        autocomplete.Controller
	dropdown  suggestions.Model
	confirmed *company.Candidate

	// Submission
	flow          *search.Flow
	modal         ambiguity.Model
	submitSeq     int
	submitCompany string

	// Results
	response     *search.Response
	resultsTable table.Model
	lastRequest  search.Request

	// Popups
	popup         popup.Model
	showHelpPopup bool

	profileSelector profileselector.Model
	showProfiles    bool

	browser companybrowser.Model

	history       []history.Entry
	historyList   historylist.Model
	showHistory   bool
	historyFilter textinput.Model
	filtering     bool

	// Status
	spinner   spinner.Model
	loading   bool
	resolving bool
	errorMsg  string
	statusMsg string
}

// NewModel creates a new UI model. store may be nil when history is
// unavailable; newBackend is used when the user switches profile.
func NewModel(cfg *config.Config, profile *config.Profile, backend Backend, store HistoryStore, newBackend BackendFactory) Model {
	InitStyles(cfg.Theme)

	pi := textinput.New()
	pi.Prompt = "Prompt  › "
	pi.Placeholder = "e.g. annual reports 2020-2023, latest quarterly results"
	pi.CharLimit = 500
	pi.PromptStyle = LabelStyle
	pi.PlaceholderStyle = lipgloss.NewStyle().Foreground(TextFaint())
	pi.Focus()

	ci := textinput.New()
	ci.Prompt = "Company › "
	ci.Placeholder = "ticker or company name (optional)"
	ci.CharLimit = 100
	ci.PromptStyle = LabelStyle
	ci.PlaceholderStyle = lipgloss.NewStyle().Foreground(TextFaint())

	hf := textinput.New()
	hf.Prompt = "/ "
	hf.Placeholder = "Search history..."
	hf.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor())

	activeName := ""
	if profile != nil {
		activeName = profile.Name
	}

	return Model{
		config:       cfg,
		profile:      profile,
		backend:      backend,
		newBackend:   newBackend,
		historyStore: store,
		saveConfig:   (*config.Config).Save,

		prompt:       pi,
		companyInput: ci,
		focus:        FocusPrompt,

		ac:       autocomplete.New(backend, cfg.MaxResults),
		dropdown: suggestions.New().SetStyles(suggestionStyles()),

		flow:  search.NewFlow(),
		modal: ambiguity.New().SetStyles(ambiguityStyles()),

		resultsTable: eztable.New(nil),

		popup:           popup.New().SetStyles(popupStyles()),
		profileSelector: profileselector.New(cfg.Profiles, activeName, cfg.Theme),
		browser:         companybrowser.New(),
		historyList: historylist.New().
			SetStyles(historyStyles()).
			SetHighlightFunc(highlight.Prompt),
		historyFilter: hf,

		spinner: sp,
	}
}

// Init starts the cursor blink and loads history
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistoryCmd(""))
}

// Flow exposes the submission state, mainly for tests and the status bar
func (m Model) Flow() *search.Flow {
	return m.flow
}

func (m Model) resize(w, h int) Model {
	m.width = w
	m.height = h
	inner := max(20, w-4)
	m.prompt.Width = inner - lipgloss.Width(m.prompt.Prompt) - 1
	m.companyInput.Width = inner - lipgloss.Width(m.companyInput.Prompt) - 1
	m.dropdown = m.dropdown.SetWidth(min(80, w-dropdownX-2))
	m.modal = m.modal.SetWidth(min(72, w-4))
	m.popup = m.popup.SetScreenSize(w, h)
	m.profileSelector = m.profileSelector.SetWidth(min(80, w-4))
	m.browser = m.browser.SetSize(w, h)
	m.historyList = m.historyList.SetSize(min(100, w-8), max(5, h-12))
	if m.response != nil {
		m.resultsTable = eztable.FromResponse(m.response, w-2)
	}
	return m
}

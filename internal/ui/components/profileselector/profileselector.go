// Package profileselector lists report-finder profiles and edits their
// endpoint, provider and API keys.
package profileselector

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/ui/icons"
)

// State represents the component state
type State int

const (
	StateSelectingProfile State = iota
	StateAddingProfile
	StateEditingProfile
)

// Form fields, in tab order
const (
	fieldName = iota
	fieldBaseURL
	fieldOpenAIKey
	fieldSerperKey
	fieldProvider
	fieldLLMBaseURL
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Name", "Base URL", "OpenAI key", "Serper key", "Provider", "LLM base URL",
}

// SelectedMsg is sent when a profile is chosen as the active one
type SelectedMsg struct {
	Index int
}

// ProfileSavedMsg carries an added or edited profile. Original is the
// name the profile had before editing.
type ProfileSavedMsg struct {
	Profile  config.Profile
	Original string
	IsNew    bool
}

// Action is a management action on a profile
type Action int

const (
	ActionDelete Action = iota
)

// ManagementMsg requests a management action
type ManagementMsg struct {
	Action Action
	Name   string
}

// ClosedMsg is sent when the selector is dismissed
type ClosedMsg struct{}

// Styles for the selector
type Styles struct {
	Box           lipgloss.Style
	Title         lipgloss.Style
	Item          lipgloss.Style
	Selected      lipgloss.Style
	Detail        lipgloss.Style
	Active        lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldLabelAct lipgloss.Style
	StatusError   lipgloss.Style
	Hint          lipgloss.Style
}

// DefaultStyles returns the default styling
func DefaultStyles(theme config.Theme) Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Highlight)).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.BgPrimary)).
			Background(lipgloss.Color(theme.Highlight)).
			Padding(0, 1).
			MarginBottom(1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextSecondary)).
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(theme.Accent)).
			Foreground(lipgloss.Color(theme.TextPrimary)).
			PaddingLeft(1),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)),
		FieldLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Width(14),
		FieldLabelAct: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Accent)).
			Bold(true).
			Width(14),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),
		Hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.TextFaint)).
			Italic(true),
	}
}

// Model is the selector state
type Model struct {
	profiles []config.Profile
	active   string
	selected int
	state    State

	inputs      [fieldCount]textinput.Model
	formFocused int
	editing     *config.Profile

	width         int
	styles        Styles
	statusMessage string
}

// New creates a new selector
func New(profiles []config.Profile, active string, theme config.Theme) Model {
	newInput := func(placeholder string) textinput.Model {
		t := textinput.New()
		t.Placeholder = placeholder
		t.Width = 44
		return t
	}
	newSecretInput := func(placeholder string) textinput.Model {
		t := newInput(placeholder)
		t.EchoMode = textinput.EchoPassword
		t.EchoCharacter = '•'
		return t
	}

	m := Model{
		profiles: profiles,
		active:   active,
		width:    72,
		styles:   DefaultStyles(theme),
	}
	m.inputs[fieldName] = newInput("Profile name")
	m.inputs[fieldBaseURL] = newInput("http://localhost:8000")
	m.inputs[fieldOpenAIKey] = newSecretInput("sk-...")
	m.inputs[fieldSerperKey] = newSecretInput("Serper API key")
	m.inputs[fieldProvider] = newInput("openai or openrouter")
	m.inputs[fieldLLMBaseURL] = newInput("provider default")
	m.selected = m.indexOf(active)
	return m
}

func (m Model) indexOf(name string) int {
	for i, p := range m.profiles {
		if p.Name == name {
			return i
		}
	}
	return 0
}

// SetProfiles updates the profile list
func (m Model) SetProfiles(profiles []config.Profile, active string) Model {
	m.profiles = profiles
	m.active = active
	if m.selected >= len(profiles) {
		m.selected = max(0, len(profiles)-1)
	}
	return m
}

// SetWidth sets the outer width of the box
func (m Model) SetWidth(w int) Model {
	if w > 30 {
		m.width = w
	}
	return m
}

// SetStatusMessage sets a temporary status message
func (m Model) SetStatusMessage(msg string) Model {
	m.statusMessage = msg
	return m
}

// ResetState goes back to the list
func (m Model) ResetState() Model {
	m.state = StateSelectingProfile
	m.editing = nil
	m.statusMessage = ""
	m.clearInputs()
	return m
}

func (m Model) State() State  { return m.state }
func (m Model) Selected() int { return m.selected }

// SelectedProfile returns the highlighted profile
func (m Model) SelectedProfile() *config.Profile {
	if m.selected >= 0 && m.selected < len(m.profiles) {
		return &m.profiles[m.selected]
	}
	return nil
}

// Update handles input
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.state == StateSelectingProfile {
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.formFocused], cmd = m.inputs[m.formFocused].Update(msg)
		return m, cmd
	}

	if m.state == StateAddingProfile || m.state == StateEditingProfile {
		return m.updateForm(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.profiles)-1 {
			m.selected++
		}
	case "enter":
		if p := m.SelectedProfile(); p != nil {
			i := m.selected
			return m, func() tea.Msg { return SelectedMsg{Index: i} }
		}
	case "e":
		if p := m.SelectedProfile(); p != nil {
			m.state = StateEditingProfile
			m.editing = p
			m.populateInputs(p)
			m.statusMessage = ""
			cmd := m.focusField(fieldBaseURL)
			return m, cmd
		}
	case "a":
		m.state = StateAddingProfile
		m.editing = nil
		m.clearInputs()
		m.inputs[fieldBaseURL].SetValue("http://localhost:8000")
		m.inputs[fieldProvider].SetValue(config.ProviderOpenAI)
		m.statusMessage = ""
		cmd := m.focusField(fieldName)
		return m, cmd
	case "d", "x":
		if p := m.SelectedProfile(); p != nil {
			name := p.Name
			return m, func() tea.Msg { return ManagementMsg{Action: ActionDelete, Name: name} }
		}
	case "esc", "q":
		return m, func() tea.Msg { return ClosedMsg{} }
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		next := (m.formFocused + 1) % fieldCount
		if m.state == StateEditingProfile && next == fieldName {
			next = fieldBaseURL
		}
		cmd := m.focusField(next)
		return m, cmd
	case "shift+tab", "up":
		prev := (m.formFocused + fieldCount - 1) % fieldCount
		if m.state == StateEditingProfile && prev == fieldName {
			prev = fieldLLMBaseURL
		}
		cmd := m.focusField(prev)
		return m, cmd
	case "enter":
		p, err := m.formProfile()
		if err != nil {
			m.statusMessage = err.Error()
			return m, nil
		}
		original := ""
		if m.editing != nil {
			original = m.editing.Name
		}
		isNew := m.state == StateAddingProfile
		return m, func() tea.Msg {
			return ProfileSavedMsg{Profile: p, Original: original, IsNew: isNew}
		}
	case "esc":
		return m.ResetState(), nil
	}

	var cmd tea.Cmd
	m.inputs[m.formFocused], cmd = m.inputs[m.formFocused].Update(msg)
	return m, cmd
}

// formProfile builds the profile from the form. Blank key fields keep the
// stored key when editing.
func (m Model) formProfile() (config.Profile, error) {
	val := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }

	var p config.Profile
	if m.editing != nil {
		p = *m.editing
	} else {
		p.Name = val(fieldName)
	}
	p.BaseURL = val(fieldBaseURL)
	if k := val(fieldOpenAIKey); k != "" {
		p.OpenAIKey = k
	}
	if k := val(fieldSerperKey); k != "" {
		p.SerperKey = k
	}

	provider := strings.ToLower(val(fieldProvider))
	if provider == "" {
		provider = config.ProviderOpenAI
	}
	if err := p.SetProvider(provider, val(fieldLLMBaseURL)); err != nil {
		return p, err
	}
	return p, p.Validate()
}

func (m *Model) focusField(i int) tea.Cmd {
	m.inputs[m.formFocused].Blur()
	m.formFocused = i
	return m.inputs[i].Focus()
}

func (m *Model) clearInputs() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.inputs[fieldOpenAIKey].Placeholder = "sk-..."
	m.inputs[fieldSerperKey].Placeholder = "Serper API key"
	m.formFocused = 0
}

func (m *Model) populateInputs(p *config.Profile) {
	m.clearInputs()
	s := p.Masked()
	m.inputs[fieldName].SetValue(p.Name)
	m.inputs[fieldBaseURL].SetValue(p.BaseURL)
	m.inputs[fieldOpenAIKey].Placeholder = s.OpenAIKey + " (blank keeps it)"
	m.inputs[fieldSerperKey].Placeholder = s.SerperKey + " (blank keeps it)"
	m.inputs[fieldProvider].SetValue(s.OpenAIProvider)
	m.inputs[fieldLLMBaseURL].SetValue(p.OpenAIBaseURL)
}

// View renders the selector box; the caller positions it
func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case StateAddingProfile, StateEditingProfile:
		title := "New profile"
		if m.editing != nil {
			title = "Settings · " + m.editing.Name
		}
		b.WriteString(m.styles.Title.Render(title))
		b.WriteString("\n")
		for i := range m.inputs {
			if m.state == StateEditingProfile && i == fieldName {
				continue
			}
			label := m.styles.FieldLabel
			if i == m.formFocused {
				label = m.styles.FieldLabelAct
			}
			b.WriteString(label.Render(fieldLabels[i]) + m.inputs[i].View() + "\n")
		}
		b.WriteString("\n" + m.styles.Hint.Render("tab next field · enter save · esc back"))

	default:
		b.WriteString(m.styles.Title.Render("Profiles"))
		b.WriteString("\n")
		if len(m.profiles) == 0 {
			b.WriteString(m.styles.Detail.Render("No profiles configured") + "\n")
		}
		for i := range m.profiles {
			b.WriteString(m.renderProfile(i) + "\n")
		}
		b.WriteString("\n" + m.styles.Hint.Render("enter use · e settings · a add · d delete · esc close"))
	}

	if m.statusMessage != "" {
		b.WriteString("\n" + m.styles.StatusError.Render(icons.IconError+" "+m.statusMessage))
	}
	return m.styles.Box.Width(m.width - 2).Render(b.String())
}

func (m Model) renderProfile(i int) string {
	p := m.profiles[i]
	s := p.Masked()

	name := p.Name
	if p.Name == m.active {
		name += " " + m.styles.Active.Render(icons.IconSuccess)
	}
	detail := fmt.Sprintf("%s · %s · openai %s · serper %s",
		limitString(s.BaseURL, 28), s.OpenAIProvider, s.OpenAIKey, s.SerperKey)

	style := m.styles.Item
	if i == m.selected {
		style = m.styles.Selected
		name = icons.IconSelect + " " + name
	}
	return style.Render(name + "\n" + m.styles.Detail.Render("  "+detail))
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := (maxLen - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}

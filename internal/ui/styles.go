// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/ui/components/ambiguity"
	"github.com/nhath/irfinder/internal/ui/components/historylist"
	"github.com/nhath/irfinder/internal/ui/components/popup"
	"github.com/nhath/irfinder/internal/ui/components/suggestions"
	eztable "github.com/nhath/irfinder/internal/ui/components/table"
)

var (
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	cardBg      lipgloss.Color
	borderColor lipgloss.Color

	// Styles
	TitleStyle         lipgloss.Style
	StatusBarStyle     lipgloss.Style
	StateStyle         lipgloss.Style
	ConnectionStyle    lipgloss.Style
	InputStyle         lipgloss.Style
	InputFocusedStyle  lipgloss.Style
	LabelStyle         lipgloss.Style
	MetaStyle          lipgloss.Style
	SuccessStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	WarningStyle       lipgloss.Style
	SystemMessageStyle lipgloss.Style
	PopupStyle         lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func CardBg() lipgloss.Color         { return cardBg }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	cardBg = lipgloss.Color(theme.CardBg)
	borderColor = lipgloss.Color(theme.BorderColor)

	eztable.Init(theme)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(bgPrimary).
		Background(accentColor).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	StateStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(successColor).
		Foreground(bgPrimary)

	ConnectionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(cardBg).
		Foreground(textPrimary)

	InputStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	InputFocusedStyle = InputStyle.
		BorderForeground(accentColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(textSecondary).
		Bold(true)

	MetaStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Italic(true)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true)

	WarningStyle = lipgloss.NewStyle().
		Foreground(bgPrimary).
		Background(warningColor).
		Bold(true).
		Padding(0, 1)

	SystemMessageStyle = lipgloss.NewStyle().
		Foreground(highlightColor).
		Bold(true)

	PopupStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 2)
}

// themed component styles, derived from the palette above

func suggestionStyles() suggestions.Styles {
	s := suggestions.DefaultStyles()
	s.Box = s.Box.BorderForeground(accentColor)
	s.Item = s.Item.Foreground(textPrimary)
	s.Selected = s.Selected.Foreground(bgPrimary).Background(highlightColor)
	s.Loading = s.Loading.Foreground(textFaint)
	s.Empty = s.Empty.Foreground(textFaint)
	s.Error = s.Error.Foreground(errorColor)
	s.Label = s.Label.Foreground(textSecondary)
	s.High = s.High.Foreground(successColor)
	s.Low = s.Low.Foreground(warningColor)
	return s
}

func ambiguityStyles() ambiguity.Styles {
	s := ambiguity.DefaultStyles()
	s.Box = s.Box.BorderForeground(warningColor)
	s.Item = s.Item.Foreground(textPrimary)
	s.Selected = s.Selected.Foreground(bgPrimary).Background(accentColor)
	s.Footer = s.Footer.Foreground(textFaint)
	return s
}

func popupStyles() popup.Styles {
	s := popup.DefaultStyles()
	s.Box = s.Box.BorderForeground(highlightColor)
	s.Header = s.Header.Foreground(accentColor)
	s.Body = s.Body.Foreground(textPrimary)
	s.Footer = s.Footer.Foreground(textFaint)
	return s
}

func historyStyles() historylist.Styles {
	s := historylist.DefaultStyles()
	s.Selected = s.Selected.Background(cardBg)
	s.Prompt = s.Prompt.Foreground(accentColor)
	s.Ticker = s.Ticker.Foreground(warningColor)
	s.Meta = s.Meta.Foreground(textFaint)
	s.Error = s.Error.Foreground(errorColor)
	s.SuccessIcon = s.SuccessIcon.Foreground(successColor)
	s.ErrorIcon = s.ErrorIcon.Foreground(errorColor)
	s.Faint = s.Faint.Foreground(textFaint)
	return s
}

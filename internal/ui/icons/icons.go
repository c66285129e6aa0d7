package icons

const (
	// Report icons (Nerd Font)
	IconAnnual    = "󰈙"
	IconQuarterly = "󰃭"
	IconPresent   = "󰐨"
	IconGeneric   = "󰈔"

	// Utility Icons
	IconSuccess   = "✓"
	IconError     = "⚠"
	IconSelect    = "▸"
	IconBullet    = "•"
	IconSeparator = "  •  "
)

// GetReportIcon picks an icon for a report type as returned by the
// discovery service
func GetReportIcon(reportType string) string {
	switch reportType {
	case "annual", "annual_report", "10-K", "20-F":
		return IconAnnual
	case "quarterly", "quarterly_report", "10-Q", "interim":
		return IconQuarterly
	case "presentation", "investor_presentation":
		return IconPresent
	default:
		return IconGeneric
	}
}

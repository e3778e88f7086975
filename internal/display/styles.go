package display

import "github.com/charmbracelet/lipgloss"

// Colours used throughout terminal output.
var (
	ColorBrand = lipgloss.Color("#066AAB")
	ColorGreen = lipgloss.Color("#16A34A")
	ColorRed   = lipgloss.Color("#DC2626")
	ColorKPI   = lipgloss.Color("#501201")
	ColorGray  = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBrand)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorKPI)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	UpStyle = lipgloss.NewStyle().
		Foreground(ColorGreen)

	DownStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)
)

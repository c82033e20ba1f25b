package ui

import "github.com/charmbracelet/lipgloss"

const ellipsis = "…"

var (
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	blue      = lipgloss.AdaptiveColor{Light: "#1E63B8", Dark: "#7AB8FF"}
	red       = lipgloss.AdaptiveColor{Light: "#C4261B", Dark: "#FF6F61"}
	purple    = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#8E8BFF"}

	noteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	faint  = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4D4D4D"}

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(purple).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(noteFg).
			Italic(true)

	statusBaseStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true)

	statusLoadingStyle = statusBaseStyle.
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(blue)

	statusReadyStyle = statusBaseStyle.
				Foreground(mintGreen).
				Background(darkGreen)

	statusErrorStyle = statusBaseStyle.
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(red)

	counterStyle = lipgloss.NewStyle().Foreground(noteFg)

	counterFullStyle = lipgloss.NewStyle().Foreground(red)

	errorAreaStyle = lipgloss.NewStyle().
			Foreground(red).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(purple).
			Padding(0, 2)

	buttonStopStyle = buttonStyle.Background(red)

	buttonDisabledStyle = lipgloss.NewStyle().
				Foreground(faint).
				Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#262626"}).
				Padding(0, 2)

	footerStyle = lipgloss.NewStyle().Foreground(noteFg)

	textareaFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(purple)

	textareaBlurredBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(faint)
)

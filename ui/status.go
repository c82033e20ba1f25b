package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/voice-studio/tts"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// statusIndicator maps the controller state to a label and its style.
func statusIndicator(snap tts.Snapshot) (string, lipgloss.Style) {
	switch snap.Status {
	case tts.StatusLoading:
		return "🔄 Generating...", statusLoadingStyle
	case tts.StatusPlaying:
		return "🔊 Playing", statusReadyStyle
	case tts.StatusError:
		return "❌ Error", statusErrorStyle
	default:
		return "✅ Ready", statusReadyStyle
	}
}

func statusView(snap tts.Snapshot) string {
	label, style := statusIndicator(snap)
	return style.Render(label)
}

// buttonLabel is the primary action for the given state.
func buttonLabel(snap tts.Snapshot) string {
	switch {
	case snap.Status == tts.StatusPlaying:
		return "Stop Playback"
	case snap.IsBusy():
		return "Generating Speech..."
	default:
		return "Generate & Play"
	}
}

func buttonView(snap tts.Snapshot, hasText bool, spinner string) string {
	label := buttonLabel(snap)
	switch {
	case snap.Status == tts.StatusPlaying:
		return buttonStopStyle.Render("■ " + label)
	case snap.IsBusy():
		return buttonDisabledStyle.Render(spinner + " " + label)
	case !hasText:
		return buttonDisabledStyle.Render("▶ " + label)
	default:
		return buttonStyle.Render("▶ " + label)
	}
}

// counterText renders the character counter, counting runes.
func counterText(n, limit int) string {
	return fmt.Sprintf("%d / %d characters", n, limit)
}

func counterView(n, limit int) string {
	s := counterText(n, limit)
	if n >= limit {
		return counterFullStyle.Render(s)
	}
	return counterStyle.Render(s)
}

// errorView wraps the error message to width. It is empty unless the
// controller is in the error state.
func errorView(snap tts.Snapshot, width int) string {
	if snap.Status != tts.StatusError || snap.Message == "" {
		return ""
	}
	inner := max(10, width-errorAreaStyle.GetHorizontalFrameSize())
	return errorAreaStyle.Render(wordwrap.String(snap.Message, inner))
}

// footerView names the service, truncated to width.
func footerView(serviceURL, voice string, width int) string {
	parts := []string{"service " + serviceURL}
	if voice != "" {
		parts = append(parts, "voice "+voice)
	}
	s := strings.Join(parts, " · ")
	if width > 0 {
		s = runewidth.Truncate(s, width, ellipsis)
	}
	return footerStyle.Render(s)
}

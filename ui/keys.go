package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/dgnsrekt/voice-studio/tts"
)

type keyMap struct {
	Submit  key.Binding
	Newline key.Binding
	Stop    key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate & play"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "new line"),
		),
		Stop: key.NewBinding(
			key.WithKeys("ctrl+s", "esc"),
			key.WithHelp("ctrl+s", "stop playback"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear text"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// update enables the bindings that make sense for the given state.
func (k *keyMap) update(snap tts.Snapshot, hasText bool) {
	k.Submit.SetEnabled(!snap.IsBusy() && hasText)
	k.Newline.SetEnabled(!snap.IsBusy())
	k.Stop.SetEnabled(snap.CanStop())
	k.Clear.SetEnabled(!snap.IsBusy() && hasText)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Stop, k.Newline, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline, k.Clear},
		{k.Stop, k.Help, k.Quit},
	}
}

// textareaKeyMap returns the text area bindings with enter freed for submit.
func textareaKeyMap(k keyMap) textarea.KeyMap {
	km := textarea.DefaultKeyMap
	km.InsertNewline = k.Newline
	return km
}

package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Shown in the footer
	ServiceURL string
	Voice      string

	// Soft limit on the text area, in characters
	MaxChars int

	EnableMouse bool

	// For debugging the UI
	ShowGeneration bool   `env:"VOICESTUDIO_SHOW_GENERATION" envDefault:"false"`
	Spinner        string `env:"VOICESTUDIO_SPINNER"         envDefault:"dot"`
	AltScreen      bool   `env:"VOICESTUDIO_ALT_SCREEN"      envDefault:"true"`
}

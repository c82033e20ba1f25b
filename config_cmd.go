package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# speech synthesis service
service:
  # base URL; POST /generate-speech is sent here
  url: "http://localhost:8000"
  # per-request timeout (0 disables it)
  timeout: "30s"
  # outbound request limit (0 disables it)
  requests_per_minute: 60

# parameters sent with every request
speech:
  voice: "default"
  # speech rate multiplier (0.1 to 3.0)
  speed: 1.0

# local playback
audio:
  # output sample rate: 8000, 16000, 22050, 24000, 44100 or 48000
  sample_rate: 22050
  # 1 (mono) or 2 (stereo)
  channels: 1
  # volume level (0.0 to 1.0)
  volume: 1.0

# replays of the same text skip the service when enabled
cache:
  enabled: false
  # in MB
  max_size: 16
  # store entries zstd-compressed
  compression: true

# text area
input:
  max_chars: 1000

# mouse support (TUI-mode only)
mouse: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the voicestudio config file",
	Long:    paragraph(fmt.Sprintf("\n%s the voicestudio config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("voicestudio config\nvoicestudio config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	// An invalid config file must still be editable
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Voice Studio", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}

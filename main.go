// Package main provides the entry point for the Voice Studio CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voice-studio/internal/cache"
	"github.com/dgnsrekt/voice-studio/internal/service"
	"github.com/dgnsrekt/voice-studio/tts"
	"github.com/dgnsrekt/voice-studio/tts/audio"
	"github.com/dgnsrekt/voice-studio/ui"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	mouse      bool

	rootCmd = &cobra.Command{
		Use:   "voicestudio",
		Short: "Turn text into speech from the terminal",
		Long: paragraph(
			fmt.Sprintf("\nType some text, press enter and %s.", keyword("hear it spoken")),
		),
		SilenceErrors:     false,
		SilenceUsage:      true,
		TraverseChildren:  true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: loadConfig,
		RunE:              execute,
	}

	// cfg is populated by loadConfig before any command runs.
	cfg tts.Config
)

// loadConfig reads an explicit --config file, if any, and validates the
// merged configuration.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
	}

	mouse = viper.GetBool("mouse")

	var err error
	cfg, err = tts.LoadConfigFromViper()
	if err != nil {
		return err
	}
	return nil
}

// session wires the service client, optional replay cache, audio player and
// controller together.
type session struct {
	client *service.Client
	cache  *cache.MemoryCache
	player *audio.Player
	ctrl   *tts.Controller
}

func newClient(cfg tts.Config) (*service.Client, *cache.MemoryCache, error) {
	sc := cfg.ToServiceConfig()
	if Version != "" {
		sc.UserAgent = "voicestudio/" + Version
	}

	var c *cache.MemoryCache
	if cfg.Cache.Enabled {
		var err error
		c, err = cache.New(cfg.ToCacheConfig())
		if err != nil {
			return nil, nil, fmt.Errorf("unable to create cache: %w", err)
		}
		sc.Cache = c
	}

	client, err := service.NewClient(sc)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, nil, fmt.Errorf("unable to create service client: %w", err)
	}
	return client, c, nil
}

func newSession(cfg tts.Config) (*session, error) {
	client, c, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	player, err := audio.NewPlayer(cfg.ToPlayerConfig())
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return nil, fmt.Errorf("unable to create audio player: %w", err)
	}

	return &session{
		client: client,
		cache:  c,
		player: player,
		ctrl:   tts.NewController(client, player, cfg.ToControllerConfig()),
	}, nil
}

func (s *session) Close() error {
	errs := []error{s.ctrl.Close(), s.player.Close()}
	if s.cache != nil {
		stats := s.cache.Stats()
		log.Debug("Cache closed", "hits", stats.Hits, "misses", stats.Misses)
		errs = append(errs, s.cache.Close())
	}
	return errors.Join(errs...)
}

func execute(*cobra.Command, []string) error {
	return runTUI()
}

func runTUI() error {
	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	uiCfg.ServiceURL = cfg.Service.URL
	uiCfg.Voice = cfg.Speech.Voice
	uiCfg.MaxChars = cfg.Input.MaxChars
	uiCfg.EnableMouse = mouse

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	// Run Bubble Tea program
	if _, err := ui.NewProgram(uiCfg, s.ctrl).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tts.SetDefaults()
	viper.SetDefault("mouse", false)

	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringP("url", "u", "", "speech service base URL")
	rootCmd.PersistentFlags().String("voice", "", "voice to request")
	rootCmd.PersistentFlags().Float64("speed", 0, "speech rate multiplier (0.1-3.0)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "request timeout")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("service.url", rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag("service.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("speech.voice", rootCmd.PersistentFlags().Lookup("voice"))
	_ = viper.BindPFlag("speech.speed", rootCmd.PersistentFlags().Lookup("speed"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	rootCmd.AddCommand(sayCmd, voicesCmd, healthCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "voicestudio")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "voicestudio")}, dirs...)
	}

	if c := os.Getenv("VOICESTUDIO_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("voicestudio")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("voicestudio")
	// VOICESTUDIO_SERVICE_URL overrides service.url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], "voicestudio.yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}

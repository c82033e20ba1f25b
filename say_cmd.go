package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/voice-studio/tts"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	fromClipboard bool
	quiet         bool

	// readClipboard is replaced in tests.
	readClipboard = clipboard.ReadAll

	errNoText = errors.New("nothing to say: pass text as arguments, on stdin or with --clipboard")

	sayCmd = &cobra.Command{
		Use:   "say [TEXT...]",
		Short: "Speak text without starting the TUI",
		Long: paragraph(fmt.Sprintf("\n%s the given text and wait for playback to finish. "+
			"Text is read from the arguments, from stdin when it is a pipe, or from the clipboard.", keyword("Speak"))),
		Example: paragraph("voicestudio say Hello world\necho Hello | voicestudio say\nvoicestudio say --clipboard"),
		RunE:    executeSay,
	}
)

func init() {
	sayCmd.Flags().BoolVarP(&fromClipboard, "clipboard", "c", false, "read text from the clipboard")
	sayCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print a summary")
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// sayText picks the text to speak: the clipboard when asked for, then the
// arguments, then stdin when it is a pipe.
func sayText(args []string, stdin io.Reader, piped bool) (string, error) {
	var text string
	switch {
	case fromClipboard:
		s, err := readClipboard()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
		text = s
	case len(args) > 0:
		text = strings.Join(args, " ")
	case piped:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		text = string(b)
	}

	if strings.TrimSpace(text) == "" {
		return "", errNoText
	}
	return text, nil
}

func executeSay(cmd *cobra.Command, args []string) error {
	piped, err := stdinIsPipe()
	if err != nil {
		return err
	}
	text, err := sayText(args, os.Stdin, piped)
	if err != nil {
		return err
	}

	n := utf8.RuneCountInString(text)
	if n > cfg.Input.MaxChars {
		return fmt.Errorf("text is %s characters, the limit is %s",
			humanize.Comma(int64(n)), humanize.Comma(int64(cfg.Input.MaxChars)))
	}

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := s.ctrl.GenerateAndPlay(ctx, text); err != nil {
		return err //nolint:wrapcheck
	}
	log.Debug("Speaking", "chars", n, "latency", time.Since(start))

	snap := waitForPlayback(ctx, s.ctrl)
	if snap.Status == tts.StatusError {
		return errors.New(snap.Message)
	}
	if ctx.Err() != nil {
		return errors.New("playback interrupted")
	}

	if !quiet {
		printSummary(cmd.OutOrStdout(), n, time.Since(start))
	}
	return nil
}

// waitForPlayback blocks until the controller leaves the playing state,
// stopping playback if ctx is cancelled first.
func waitForPlayback(ctx context.Context, ctrl *tts.Controller) tts.Snapshot {
	for {
		snap := ctrl.Snapshot()
		if snap.Status != tts.StatusPlaying {
			return snap
		}
		select {
		case <-ctx.Done():
			ctrl.Stop()
			return ctrl.Snapshot()
		case _, ok := <-ctrl.Changes():
			if !ok {
				return ctrl.Snapshot()
			}
		}
	}
}

func printSummary(w io.Writer, chars int, elapsed time.Duration) {
	msg := fmt.Sprintf("Spoke %s characters in %s", humanize.Comma(int64(chars)), elapsed.Round(100*time.Millisecond))
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec
		msg = faintStyle.Render(msg)
	}
	_, _ = fmt.Fprintln(w, msg)
}

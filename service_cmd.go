package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dgnsrekt/voice-studio/internal/service"
	"github.com/dgnsrekt/voice-studio/internal/ttypes"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voices offered by the speech service",
		Args:    cobra.NoArgs,
		Example: paragraph("voicestudio voices\nvoicestudio voices --url http://tts.local:8000"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newServiceClient()
			if err != nil {
				return err
			}
			resp, err := client.Voices(cmd.Context())
			if err != nil {
				return fmt.Errorf("unable to list voices: %w", err)
			}
			writeVoices(cmd.OutOrStdout(), resp, isTerminal(cmd.OutOrStdout()))
			return nil
		},
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check that the speech service is up",
		Long: paragraph(fmt.Sprintf("\n%s the speech service health endpoint. "+
			"Exits non-zero when the service is unreachable or has no engine available.", keyword("Query"))),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newServiceClient()
			if err != nil {
				return err
			}
			return checkHealth(cmd.Context(), client, cmd.OutOrStdout(), isTerminal(cmd.OutOrStdout()))
		},
	}
)

// healthChecker is the subset of the service client used by health.
type healthChecker interface {
	Health(ctx context.Context) (ttypes.ServiceHealth, error)
	BaseURL() string
}

func newServiceClient() (*service.Client, error) {
	// These commands make one request each, a cache would never be hit.
	c := cfg
	c.Cache.Enabled = false
	client, _, err := newClient(c)
	return client, err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec
}

func writeVoices(w io.Writer, resp service.VoicesResponse, styled bool) {
	if len(resp.Voices) == 0 {
		_, _ = fmt.Fprintln(w, "No voices available.")
		return
	}

	idWidth := 0
	for _, v := range resp.Voices {
		idWidth = max(idWidth, runewidth.StringWidth(v.ID))
	}

	for _, v := range resp.Voices {
		id := runewidth.FillRight(v.ID, idWidth)
		if styled {
			id = keyword(id)
		}
		line := id + "  " + v.Name
		if v.Language != "" {
			line += " (" + v.Language + ")"
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if resp.Engine != "" {
		footer := fmt.Sprintf("\n%d voices, engine %s", len(resp.Voices), resp.Engine)
		if styled {
			footer = faintStyle.Render(footer)
		}
		_, _ = fmt.Fprintln(w, footer)
	}
}

func checkHealth(ctx context.Context, client healthChecker, w io.Writer, styled bool) error {
	h, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("speech service at %s is unreachable: %w", client.BaseURL(), err)
	}

	status := h.Status
	if styled {
		if h.Healthy() {
			status = keyword(status)
		} else {
			status = errorStyle.Render(status)
		}
	}
	_, _ = fmt.Fprintf(w, "%s: %s (engine %s, available %t)\n", client.BaseURL(), status, h.Engine, h.Available)

	if !h.Healthy() {
		return fmt.Errorf("speech service is not healthy: %s", h.Status)
	}
	return nil
}

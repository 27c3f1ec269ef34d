package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		name     string
		password string
		single   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Register over the websocket and print incoming frames",
		Long: `Connect to the server's websocket endpoint, register (or re-attach) as the
given player and print every frame the server sends.

With --single a bot match is started straight after registering.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || password == "" {
				return fmt.Errorf("--name and --password are required")
			}

			wsURL, err := cfg.WebsocketURL()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, wsURL, name, password, single, NewOutput(cmd.OutOrStdout(), cfg.Output))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Player name")
	cmd.Flags().StringVar(&password, "password", "", "Player password")
	cmd.Flags().BoolVar(&single, "single", false, "Start a match against a bot")

	return cmd
}

// Frame is a websocket message as it appears on the wire
type Frame struct {
	Type string `json:"type"`
	Data string `json:"data"`
	ID   int    `json:"id"`
}

type regData struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func newFrame(frameType string, payload any, id int) (Frame, error) {
	f := Frame{Type: frameType, ID: id}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Frame{}, fmt.Errorf("failed to marshal %s: %w", frameType, err)
		}
		f.Data = string(data)
	}
	return f, nil
}

func watch(ctx context.Context, wsURL, name, password string, single bool, out *Output) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	reg, err := newFrame("reg", regData{Name: name, Password: password}, 0)
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(reg); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	if single {
		play, _ := newFrame("single_play", nil, 1)
		if err := conn.WriteJSON(play); err != nil {
			return fmt.Errorf("failed to start bot match: %w", err)
		}
	}

	// Unblock the read loop on cancellation
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var f Frame
		if err := conn.ReadJSON(&f); err != nil {
			if ctx.Err() != nil {
				out.PrintMessage("Disconnected")
				return nil
			}
			return fmt.Errorf("connection closed: %w", err)
		}
		out.Print(f)
	}
}

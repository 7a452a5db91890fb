package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/coder/websocket"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/relgraph/relgraph/internal/collab"
)

var watchName string

var watchCmd = &cobra.Command{
	Use:   "watch <diagram-id>",
	Short: "Follows a diagram's snapshot pushes and presence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wsURL, err := websocketURL(resolveServerURL(), args[0], watchName)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		conn, _, err := websocket.Dial(ctx, wsURL, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", wsURL, err)
		}
		defer conn.CloseNow()
		conn.SetReadLimit(16 << 20)

		out := cmd.OutOrStdout()
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, ctx.Err()) {
					return nil
				}
				return fmt.Errorf("read: %w", err)
			}

			var msg collab.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				fmt.Fprintf(out, "invalid message: %v\n", err)
				continue
			}
			printMessage(out, &msg)
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchName, "name", "scenectl", "Display name shown to other viewers")
	AddCommand(watchCmd)
}

func websocketURL(server, diagramID, name string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", server, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/diagram/" + diagramID
	q := u.Query()
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func printMessage(w io.Writer, msg *collab.Message) {
	switch msg.Type {
	case collab.TypeSnapshotSync, collab.TypeSnapshotPush:
		var p collab.SnapshotPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			fmt.Fprintf(w, "%s: %v\n", msg.Type, err)
			return
		}
		line := fmt.Sprintf("%s sequence %d revision %d", msg.Type, p.Sequence, p.Revision)
		if s := p.Summary; s != nil {
			line += fmt.Sprintf(": %d changed, %d added, %d removed, %d moved", s.Changed, s.Added, s.Removed, s.Moved)
		}
		color.New(color.FgGreen).Fprintln(w, line)
	case collab.TypePresenceJoin, collab.TypePresenceLeave:
		color.New(color.FgCyan).Fprintf(w, "%s %s\n", msg.Type, msg.UserID)
	case collab.TypeError:
		var p collab.ErrorPayload
		json.Unmarshal(msg.Payload, &p)
		color.New(color.FgRed).Fprintf(w, "error: %s\n", p.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", msg.Type, msg.UserID)
	}
}

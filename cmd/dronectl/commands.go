package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"nhooyr.io/websocket"

	"github.com/seu-repo/dronevox/internal/service/voice"
)

// interpretCmd runs the interpreter locally
var interpretCmd = &cobra.Command{
	Use:   "interpret <transcript>",
	Short: "Print the structured command for a transcript",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), voice.Interpret(strings.Join(args, " ")))
	},
}

// sendCmd posts a transcript to /api/v1/voice/command
var sendCmd = &cobra.Command{
	Use:   "send <transcript>",
	Short: "Process a transcript on the server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTranscript(cmd.OutOrStdout(), serverURL, strings.Join(args, " "))
	},
}

// streamCmd forwards stdin lines to /ws/voice
var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream transcripts from stdin over the voice websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stream(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), serverURL)
	},
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sendTranscript(w io.Writer, base, transcript string) error {
	body, err := json.Marshal(map[string]string{"transcript": transcript})
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(strings.TrimRight(base, "/") + "/api/v1/voice/command")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := fasthttp.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var pretty interface{}
	if err := json.Unmarshal(resp.Body(), &pretty); err != nil {
		pretty = string(resp.Body())
	}
	if err := printJSON(w, pretty); err != nil {
		return err
	}
	if code := resp.StatusCode(); code >= 300 {
		return fmt.Errorf("server answered %d", code)
	}
	return nil
}

// websocketURL turns http(s)://host into ws(s)://host/ws/voice.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/voice"
	return u.String(), nil
}

func stream(ctx context.Context, in io.Reader, out io.Writer, base string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	wsURL, err := websocketURL(base)
	if err != nil {
		return err
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	conn, _, err := websocket.Dial(dialCtx, wsURL, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
			return err
		}
		_, reply, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, string(reply)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

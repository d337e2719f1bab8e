package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/seu-repo/dronevox/internal/domain"
)

func TestInterpretCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"interpret", "send", "red", "falcon", "to", "alpha", "field"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	var cmd domain.StructuredCommand
	require.NoError(t, json.Unmarshal(out.Bytes(), &cmd))
	assert.Equal(t, domain.IntentSend, cmd.Intent)
	require.NotNil(t, cmd.Subject)
	assert.Equal(t, "red falcon", *cmd.Subject)
	require.NotNil(t, cmd.Target)
	assert.Equal(t, "alpha field", *cmd.Target)
}

func TestSendTranscript(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/voice/command", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(got["transcript"], "broken") {
			w.WriteHeader(http.StatusBadGateway)
		}
		_, _ = w.Write([]byte(`{"status":"dispatched"}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, sendTranscript(&out, srv.URL, "recall hawk"))
	assert.Equal(t, "recall hawk", got["transcript"])
	assert.Contains(t, out.String(), "dispatched")

	assert.Error(t, sendTranscript(io.Discard, srv.URL, "broken drone"))
}

func TestWebsocketURL(t *testing.T) {
	u, err := websocketURL("https://fleet.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "wss://fleet.example.com/ws/voice", u)

	u, err = websocketURL("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws/voice", u)
}

func TestStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		for {
			_, msg, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			_ = conn.Write(r.Context(), websocket.MessageText, []byte(`{"echo":"`+string(msg)+`"}`))
		}
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := stream(context.Background(), strings.NewReader("recall hawk\n\nsend hawk to alpha\n"), &out, srv.URL)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{`{"echo":"recall hawk"}`, `{"echo":"send hawk to alpha"}`}, lines)
}

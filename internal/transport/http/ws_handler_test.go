package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/pairwire/relay-server/internal/config"
	"github.com/pairwire/relay-server/internal/core"
	"github.com/pairwire/relay-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.StaticDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("<html>pairwire</html>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}

	directory := core.NewRoomDirectory(cfg.RoomCapacity)
	registry := core.NewConnectionRegistry()
	table := NewConnTable(&logger)
	emitter := core.NewEmitter(directory, table)
	dispatcher := core.NewDispatcher(directory, registry, emitter, cfg.SingleRoom, &logger)

	server := NewServer(dispatcher, table, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func sendEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", event, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Envelope{Event: event, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", event, err)
	}
}

// awaitEvent reads frames until one with the wanted event name arrives.
func awaitEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) proto.Envelope {
	t.Helper()

	for {
		var env proto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			t.Fatalf("waiting for %s: %v", event, err)
		}
		if env.Event == event {
			return env
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestStaticEntryPage(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("index request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || !strings.Contains(string(body), "pairwire") {
		t.Fatalf("unexpected index response: %d %q", resp.StatusCode, body)
	}
}

func TestTwoPartyRoomLifecycle(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	defer connA.Close(websocket.StatusNormalClosure, "done")
	connB := dialWS(t, ctx, ts)

	// Alice opens the room.
	sendEvent(t, ctx, connA, proto.EventJoinRoom, proto.RoomRequest{RoomID: "R1", Nickname: "Alice"})
	env := awaitEvent(t, ctx, connA, proto.EventJoinSuccess)
	var success proto.JoinSuccess
	if err := json.Unmarshal(env.Data, &success); err != nil {
		t.Fatalf("decode join_success: %v", err)
	}
	if success.RoomID != "R1" || success.Nickname != "Alice" || success.CurrentSize != 1 || success.MaxSize != 2 {
		t.Fatalf("unexpected join_success: %+v", success)
	}

	// Bob joins; Alice sees the presence notice, Bob sees success at size 2.
	sendEvent(t, ctx, connB, proto.EventJoinRoom, proto.RoomRequest{RoomID: "R1", Nickname: "Bob"})
	env = awaitEvent(t, ctx, connA, proto.EventSystem)
	var notice proto.SystemNotice
	if err := json.Unmarshal(env.Data, &notice); err != nil {
		t.Fatalf("decode system: %v", err)
	}
	if notice.Type != "join" || notice.Nickname != "Bob" || notice.RoomID != "R1" || !strings.HasSuffix(notice.Timestamp, "Z") {
		t.Fatalf("unexpected system notice: %+v", notice)
	}

	env = awaitEvent(t, ctx, connB, proto.EventJoinSuccess)
	if err := json.Unmarshal(env.Data, &success); err != nil {
		t.Fatalf("decode join_success: %v", err)
	}
	if success.CurrentSize != 2 {
		t.Fatalf("expected size 2, got %+v", success)
	}

	// Carol bounces off the full room.
	connC := dialWS(t, ctx, ts)
	defer connC.Close(websocket.StatusNormalClosure, "done")
	sendEvent(t, ctx, connC, proto.EventJoinRoom, proto.RoomRequest{RoomID: "R1", Nickname: "Carol"})
	env = awaitEvent(t, ctx, connC, proto.EventJoinError)
	var joinErr proto.JoinError
	if err := json.Unmarshal(env.Data, &joinErr); err != nil {
		t.Fatalf("decode join_error: %v", err)
	}
	if joinErr.Code != core.ErrCodeRoomFull || joinErr.CurrentSize != 2 || joinErr.MaxSize != 2 {
		t.Fatalf("unexpected join_error: %+v", joinErr)
	}

	// Alice relays an opaque payload; only Bob gets it, byte-for-byte.
	payload := map[string]any{"roomId": "R1", "body": "aGVsbG8=", "iv": "YWJj"}
	sendEvent(t, ctx, connA, proto.EventChatMessage, payload)
	env = awaitEvent(t, ctx, connB, proto.EventChatMessage)
	var relayed map[string]any
	if err := json.Unmarshal(env.Data, &relayed); err != nil {
		t.Fatalf("decode chat_message: %v", err)
	}
	if relayed["body"] != "aGVsbG8=" || relayed["iv"] != "YWJj" {
		t.Fatalf("payload altered in relay: %v", relayed)
	}

	// Bob drops; the freed slot lets Carol in.
	connB.Close(websocket.StatusNormalClosure, "bye")

	deadline := time.Now().Add(5 * time.Second)
	for {
		sendEvent(t, ctx, connC, proto.EventJoinRoom, proto.RoomRequest{RoomID: "R1", Nickname: "Carol"})
		var env proto.Envelope
		if err := wsjson.Read(ctx, connC, &env); err != nil {
			t.Fatalf("read join reply: %v", err)
		}
		if env.Event == proto.EventJoinSuccess {
			if err := json.Unmarshal(env.Data, &success); err != nil {
				t.Fatalf("decode join_success: %v", err)
			}
			if success.CurrentSize != 2 {
				t.Fatalf("expected Carol to be second member, got %+v", success)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("slot was never freed after disconnect")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestJoinWithEmptyRoomID(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialWS(t, ctx, ts)
	defer c.Close(websocket.StatusNormalClosure, "done")

	sendEvent(t, ctx, c, proto.EventJoinRoom, proto.RoomRequest{Nickname: "Alice"})
	env := awaitEvent(t, ctx, c, proto.EventJoinError)

	var joinErr proto.JoinError
	if err := json.Unmarshal(env.Data, &joinErr); err != nil {
		t.Fatalf("decode join_error: %v", err)
	}
	if joinErr.Code != core.ErrCodeInvalidRoomID || joinErr.Message == "" {
		t.Fatalf("unexpected join_error: %+v", joinErr)
	}
}

func TestUnknownEventIgnored(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialWS(t, ctx, ts)
	defer c.Close(websocket.StatusNormalClosure, "done")

	sendEvent(t, ctx, c, "telemetry", map[string]any{"x": 1})

	// The connection must survive; a join afterwards still works.
	sendEvent(t, ctx, c, proto.EventJoinRoom, proto.RoomRequest{RoomID: "R9", Nickname: "Alice"})
	awaitEvent(t, ctx, c, proto.EventJoinSuccess)
}

package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pairwire/relay-server/internal/core"
	"github.com/pairwire/relay-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the dispatcher.
// Each accepted connection gets an id, a read loop feeding the dispatcher,
// and a write loop draining its outbound queue.
type WSHandler struct {
	dispatcher *core.Dispatcher
	table      *ConnTable
	log        *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(dispatcher *core.Dispatcher, table *ConnTable, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{dispatcher: dispatcher, table: table, log: logger}
}

// Handle is the gin handler for the /ws route.
func (h *WSHandler) Handle(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	connectionID := uuid.NewString()
	events := h.table.add(connectionID)
	defer h.table.remove(connectionID)

	// Cleanup runs synchronously with read-loop exit, before the table
	// entry goes away.
	h.dispatcher.HandleConnect(connectionID)
	defer h.dispatcher.HandleDisconnect(connectionID)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, connectionID)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, events)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn", connectionID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, connectionID string) error {
	for {
		var env proto.Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			return err
		}

		// Undecodable data falls through as zero values: a join without a
		// usable room id errors back to the sender, leave and chat drop
		// silently.
		switch env.Event {
		case proto.EventJoinRoom:
			var req proto.RoomRequest
			_ = json.Unmarshal(env.Data, &req)
			h.dispatcher.HandleJoin(connectionID, req.RoomID, req.Nickname)
		case proto.EventLeaveRoom:
			var req proto.RoomRequest
			_ = json.Unmarshal(env.Data, &req)
			h.dispatcher.HandleLeave(connectionID, req.RoomID, req.Nickname)
		case proto.EventChatMessage:
			var ref proto.RoomRef
			_ = json.Unmarshal(env.Data, &ref)
			h.dispatcher.HandleMessage(connectionID, ref.RoomID, env.Data)
		default:
			h.log.Debug().Str("conn", connectionID).Str("event", env.Event).Msg("ignoring unknown event")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, events <-chan proto.Envelope) error {
	for {
		select {
		case env := <-events:
			if err := wsjson.Write(ctx, conn, env); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

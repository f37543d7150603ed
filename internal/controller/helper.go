package controller

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

func (c controller) writeError(conn *websocket.Conn, err error) error {
	return conn.WriteJSON(&Output{
		Action: "error",
		Data:   err.Error(),
	})
}

func (c controller) unmarshalJSONorError(conn *websocket.Conn, payload json.RawMessage, dst any) error {
	if err := json.Unmarshal(payload, dst); err != nil {
		c.writeError(conn, err)
		return err
	}

	return nil
}

func (c controller) broadcast(ctx context.Context, conns []*websocket.Conn, output *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(output); err != nil {
			c.logger.WarnContext(ctx, "failed to write to conn", "error", err)
		}
	}
}

package domain

import (
	"net/http"

	"github.com/connectus-app/backend/internal/model"
	"github.com/connectus-app/backend/pkg/authenticator"
	"github.com/connectus-app/backend/pkg/logger"
	"github.com/connectus-app/backend/pkg/ws"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WsDomain streams attempt notifications to connected clients. It sits
// outside the JSON endpoint wrapper, so it authenticates on its own from the
// token query parameter.
type WsDomain struct {
	hub         *ws.Hub
	tokenEngine authenticator.TokenEngine
	log         logger.Logger
}

func NewWsDomain(hub *ws.Hub, tokenEngine authenticator.TokenEngine, log logger.Logger) *WsDomain {
	return &WsDomain{hub: hub, tokenEngine: tokenEngine, log: log}
}

func (d *WsDomain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var token model.AccessToken
	if err := d.tokenEngine.Verify(r.URL.Query().Get("token"), &token); err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Warnf("Cannot upgrade websocket: %v", err)
		return
	}

	client := ws.NewClient(conn, token.ID)
	d.hub.Register(client)

	go client.RunWriter()
	go client.RunReader(d.hub)
}

package ws

// Hub maintains the set of active clients and broadcasts messages to the
// clients of a channel. Channels are keyed by user id here.

type clients map[*Client]bool

type broadcastRequest struct {
	channel string
	message []byte
}

type Hub struct {
	// Registered clients.
	clients clients

	channels map[string]clients

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outbound messages. Only the Run goroutine touches the maps above, so
	// broadcasts from request goroutines go through here.
	broadcast chan broadcastRequest
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastRequest, 256),
		clients:    make(map[*Client]bool),
		channels:   make(map[string]clients),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if _, ok := h.channels[client.channel]; !ok {
				h.channels[client.channel] = make(clients)
			}
			h.channels[client.channel][client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.disconnect(client)
			}
		case req := <-h.broadcast:
			for client := range h.channels[req.channel] {
				select {
				case client.send <- req.message:
				default:
					h.disconnect(client)
				}
			}
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) disconnect(client *Client) {
	delete(h.clients, client)
	delete(h.channels[client.channel], client)
	close(client.send)
}

func (h *Hub) BroadCastByChannel(channel string, message []byte) {
	h.broadcast <- broadcastRequest{channel: channel, message: message}
}

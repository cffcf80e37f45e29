// Package pushhub fans complaint updates out to the owner's live
// sessions. Delivery is best-effort: a missing or slow session never
// fails the transition that produced the update.
package pushhub

import (
	"log"

	"janmat/backend/internal/models"
)

// Update is one complaint pushed to one user's sessions.
type Update struct {
	UserID    string
	Complaint *models.Complaint
}

// Hub is the channel-driven dispatcher. All session state is owned by the
// Run goroutine; other goroutines talk to it only through the channels.
type Hub struct {
	// Clients maps a user id to that user's live sessions.
	Clients map[string]map[Client]bool

	RegisterCh   chan Client
	UnregisterCh chan Client
	UpdatesCh    chan Update
}

func NewHub() *Hub {
	return &Hub{
		Clients:      make(map[string]map[Client]bool),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		UpdatesCh:    make(chan Update, 64),
	}
}

// Run is the hub's main loop. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.RegisterCh:
			sessions := h.Clients[client.GetUserID()]
			if sessions == nil {
				sessions = make(map[Client]bool)
				h.Clients[client.GetUserID()] = sessions
			}
			sessions[client] = true
			log.Printf("User %s connected (%d sessions)", client.GetUserID(), len(sessions))

		case client := <-h.UnregisterCh:
			if sessions, ok := h.Clients[client.GetUserID()]; ok {
				if sessions[client] {
					delete(sessions, client)
					client.Close()
					if len(sessions) == 0 {
						delete(h.Clients, client.GetUserID())
					}
					log.Printf("User %s disconnected", client.GetUserID())
				}
			}

		case update := <-h.UpdatesCh:
			sessions := h.Clients[update.UserID]
			for client := range sessions {
				select {
				case client.GetSendChannel() <- update.Complaint:
				default:
					// Slow session, drop it.
					delete(sessions, client)
					client.Close()
				}
			}
			if len(sessions) == 0 {
				delete(h.Clients, update.UserID)
			}
		}
	}
}

// PushComplaint hands an updated complaint to the hub for fan-out to the
// user's sessions. It never blocks the caller; if the hub is saturated
// the update is logged and dropped.
func (h *Hub) PushComplaint(userID string, complaint *models.Complaint) {
	select {
	case h.UpdatesCh <- Update{UserID: userID, Complaint: complaint}:
	default:
		log.Printf("WARNING: Push backlog full, dropping update for user %s", userID)
	}
}

package pushhub

import "janmat/backend/internal/models"

// Client is one live push subscription for a user. It abstracts the
// underlying connection so the hub can manage sessions uniformly.
type Client interface {
	// GetUserID returns the identity the session is keyed by.
	GetUserID() string

	// GetSendChannel returns the channel the hub writes updated
	// complaints into. It is a send-only channel.
	GetSendChannel() chan<- *models.Complaint

	// Run starts the client's pumps.
	Run()
	// Close shuts down the client's send channel.
	Close()
}

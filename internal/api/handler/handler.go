package handler

import (
	"janmat/backend/internal/cache"
	"janmat/backend/internal/complaint"
	"janmat/backend/internal/pushhub"
)

// Handler wires the HTTP surface to the core services. The surrounding
// CRUD/admin surface lives elsewhere; these routes only exercise the
// lifecycle engine, the push channel, and the one-time-code flow.
type Handler struct {
	Hub        *pushhub.Hub
	Complaints *complaint.Service
	OTP        *cache.OTPService

	jwtSecret []byte
}

func NewHandler(hub *pushhub.Hub, complaints *complaint.Service, otp *cache.OTPService, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:        hub,
		Complaints: complaints,
		OTP:        otp,
		jwtSecret:  jwtSecret,
	}
}

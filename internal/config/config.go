package config

import "time"

const (
	// SLA: maximum complaint age per urgency tier before escalation.
	SLAHighThreshold   = 24 * time.Hour
	SLAMediumThreshold = 48 * time.Hour
	SLALowThreshold    = 72 * time.Hour

	// SLASchedule is the sweep cadence (top of every hour).
	SLASchedule = "0 * * * *"

	// Queue
	NotificationQueue = "notifications"
	DeadLetterQueue   = "notifications.dead"
	// MaxDeliveryAttempts bounds consumer retries; a message that fails
	// this many sends is parked on the dead-letter queue.
	MaxDeliveryAttempts = 5
	// BrokerDialTimeout bounds connection establishment so a hung broker
	// cannot stall producer or worker startup forever.
	BrokerDialTimeout = 10 * time.Second

	// OTP
	OTPExpiry = 5 * time.Minute

	// Auth
	TokenTTL = 72 * time.Hour
)

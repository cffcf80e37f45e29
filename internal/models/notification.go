package models

// Notification kinds understood by the worker.
const (
	NotifyEmail    = "EMAIL"
	NotifyTelegram = "TELEGRAM"
)

// NotificationMessage is the envelope serialized onto the durable queue.
// It is not persisted anywhere else: until a consumer acknowledges it, the
// queue itself is its only record of existence.
type NotificationMessage struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

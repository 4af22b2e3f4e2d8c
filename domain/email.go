package domain

// InboundEmail is the part of an inbound mail notification the sender filter needs.
// Metadata is the notification's mail object, stored verbatim when accepted.
type InboundEmail struct {
	MessageID string
	Sender    string
	Metadata  []byte
}

func (e InboundEmail) StorageKey() string {
	return "emails/" + e.MessageID + ".json"
}

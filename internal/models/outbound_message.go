package models

// OutboundMessage is the channel-agnostic payload handed to delivery.
type OutboundMessage struct {
	MessageType AlertKind         `json:"message_type"`
	Timestamp   int64             `json:"timestamp"` // generation time, unix millis
	Params      map[string]string `json:"params"`
}

// AddressedMessage pairs a message with the single address it goes to.
type AddressedMessage struct {
	Address Address         `json:"address"`
	Message OutboundMessage `json:"message"`
}

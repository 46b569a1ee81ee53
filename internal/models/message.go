package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// wireType is the type discriminator carried on every payload so that
// independently deployed instances can decode each other's messages without
// trusting the sender's internal type representation.
const wireType = "ChatMessage"

var ErrDecode = errors.New("err decoding wire payload")

type Message struct {
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMessage(content, sender, service string) Message {
	return Message{
		Content:   content,
		Sender:    sender,
		Service:   service,
		Timestamp: time.Now().UTC(),
	}
}

func (m Message) String() string {
	return fmt.Sprintf("%s@%s: %s", m.Sender, m.Service, m.Content)
}

type wireMessage struct {
	Type string `json:"_type"`
	Message
}

// Encode serializes m to its wire representation, stamping the type
// discriminator.
func Encode(m Message) ([]byte, error) {
	data, err := json.Marshal(wireMessage{Type: wireType, Message: m})
	if err != nil {
		return nil, fmt.Errorf("err encoding message: %w", err)
	}
	return data, nil
}

// Decode parses a wire payload back into a Message. Any malformed payload,
// wrong type tag or missing required field yields an error wrapping ErrDecode.
func Decode(data []byte) (Message, error) {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if wire.Type != wireType {
		return Message{}, fmt.Errorf("%w: unexpected type tag %q", ErrDecode, wire.Type)
	}
	if wire.Content == "" {
		return Message{}, fmt.Errorf("%w: empty content", ErrDecode)
	}
	if wire.Sender == "" {
		return Message{}, fmt.Errorf("%w: empty sender", ErrDecode)
	}
	return wire.Message, nil
}

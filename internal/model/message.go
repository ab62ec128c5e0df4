/*
Package model
File: message.go
Description:
    Player-to-player mail: body is clamped to 500 characters at
    construction time, and a short id is stamped for read/delete/save
    addressing.
*/
package model

import (
	"strings"

	"github.com/google/uuid"
)

type Message struct {
	ID        string  `json:"id"`
	Sender    string  `json:"sender"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	Timestamp float64 `json:"timestamp"`
	IsRead    bool    `json:"is_read"`
	IsSaved   bool    `json:"is_saved"`
}

const maxMessageBody = 500

// NewMessage constructs a Message, truncating body to 500 characters and
// minting a short unique id from a uuid4 prefix.
func NewMessage(sender, recipient, subject, body string, timestamp float64) *Message {
	if len(body) > maxMessageBody {
		body = body[:maxMessageBody]
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return &Message{
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Timestamp: timestamp,
	}
}

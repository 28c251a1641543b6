package domain

import "time"

type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelEmail Channel = "email"
)

func (c Channel) Valid() bool {
	return c == ChannelChat || c == ChannelEmail
}

type MessageStatus string

const (
	MessageSent    MessageStatus = "sent"
	MessagePending MessageStatus = "pending"
	MessageFailed  MessageStatus = "failed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageSent, MessagePending, MessageFailed:
		return true
	}
	return false
}

type Message struct {
	ID       int64
	LeadID   int64
	Channel  Channel
	Template string
	Content  string
	Status   MessageStatus
	SentAt   time.Time
}

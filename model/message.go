package model

import (
	"github.com/squadup/squadnet/protocol"
)

/*

Message is a 1:1 direct message.

Id: primary key, client generated
ReplyToPostId: optional back-reference to a post. Weak reference: never
validated against posts and may dangle, there is no cascade.
Read: receiver-side read flag, the only field mutable after creation
Timestamp: send time in epoch milliseconds, stored as-is in created_at

*/
type Message struct {
	Id            string `gorm:"primaryKey"`
	SenderId      string
	ReceiverId    string
	Content       string
	ReplyToPostId string
	Read          bool  `gorm:"column:is_read"`
	Timestamp     int64 `gorm:"column:created_at"`
}

func (m *Message) ToProto() *protocol.Message {
	return &protocol.Message{
		Id:            m.Id,
		SenderId:      m.SenderId,
		ReceiverId:    m.ReceiverId,
		Content:       m.Content,
		ReplyToPostId: m.ReplyToPostId,
		Timestamp:     m.Timestamp,
		Read:          m.Read,
	}
}

func MessageFromProto(m *protocol.Message) *Message {
	return &Message{
		Id:            m.Id,
		SenderId:      m.SenderId,
		ReceiverId:    m.ReceiverId,
		Content:       m.Content,
		ReplyToPostId: m.ReplyToPostId,
		Read:          m.Read,
		Timestamp:     m.Timestamp,
	}
}

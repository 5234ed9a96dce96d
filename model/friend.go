package model

import (
	"time"
)

/*

FriendEdge is a directed "user_id recruited friend_id" relation.

UserID: the adder
FriendID: the added user
CreatedAt: time when relation is created

The edge is intentionally one-way: adding a friend does not create the reverse
row. Feed visibility and conversation lists are computed from the adder's
perspective only.

*/
type FriendEdge struct {
	UserID    string `gorm:"primaryKey"`
	FriendID  string `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (FriendEdge) TableName() string {
	return "friends"
}

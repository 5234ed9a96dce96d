package model

import (
	"time"

	"github.com/squadup/squadnet/protocol"
)

/*

User is a registered account.

Id: primary key, client generated
CreatedAt: time when entity is created
Username: unique login handle, matched case-insensitively at login
Password: opaque credential stored verbatim, compared verbatim
AvatarUrl: profile picture URL
Friends: users this account recruited, "many-to-many" relation over the
directed friends edge table. Only outgoing edges are materialized; the gateway
never creates the reciprocal edge.

*/
type User struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Username  string `gorm:"uniqueIndex"`
	Password  string
	Name      string
	AvatarUrl string `gorm:"column:avatar"`
	Bio       string
	Friends   []*User `json:"friends" gorm:"many2many:friends;foreignKey:Id;joinForeignKey:UserID;references:Id;joinReferences:FriendID"`
}

// ToProto materializes the user for the wire, friends flattened to ids.
func (u *User) ToProto() *protocol.User {
	friends := []string{}
	for _, f := range u.Friends {
		friends = append(friends, f.Id)
	}
	return &protocol.User{
		Id:       u.Id,
		Username: u.Username,
		Password: u.Password,
		Name:     u.Name,
		Avatar:   u.AvatarUrl,
		Bio:      u.Bio,
		Friends:  friends,
	}
}

// UserFromProto builds a storable entity from a registration payload. Friend
// edges are managed through the join table, never through this conversion.
func UserFromProto(u *protocol.User) *User {
	return &User{
		Id:        u.Id,
		Username:  u.Username,
		Password:  u.Password,
		Name:      u.Name,
		AvatarUrl: u.Avatar,
		Bio:       u.Bio,
	}
}

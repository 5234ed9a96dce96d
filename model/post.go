package model

import (
	"github.com/squadup/squadnet/protocol"
)

/*

Post is a status update.

Id: primary key, client generated
UserId: authoring user
ImageUrl: optional attached image
Timestamp: creation time in epoch milliseconds, assigned by the creating
client and stored as-is in created_at
LikedBy: users currently liking the post, "many-to-many" relation over
post_likes. Toggle semantics: membership, not a count.

Posts are immutable after creation except for the likes set; deletion is not
supported.

*/
type Post struct {
	Id        string `gorm:"primaryKey"`
	UserId    string
	Content   string
	ImageUrl  string
	Timestamp int64   `gorm:"column:created_at"`
	LikedBy   []*User `json:"liked_by" gorm:"many2many:post_likes;foreignKey:Id;joinForeignKey:PostID;references:Id;joinReferences:UserID"`
}

// ToProto materializes the post for the wire, likes flattened to ids.
func (p *Post) ToProto() *protocol.Post {
	likes := []string{}
	for _, u := range p.LikedBy {
		likes = append(likes, u.Id)
	}
	return &protocol.Post{
		Id:        p.Id,
		UserId:    p.UserId,
		Content:   p.Content,
		ImageUrl:  p.ImageUrl,
		Timestamp: p.Timestamp,
		Likes:     likes,
	}
}

// PostFromProto builds a storable entity. Likes are managed through the join
// table, never through this conversion.
func PostFromProto(p *protocol.Post) *Post {
	return &Post{
		Id:        p.Id,
		UserId:    p.UserId,
		Content:   p.Content,
		ImageUrl:  p.ImageUrl,
		Timestamp: p.Timestamp,
	}
}

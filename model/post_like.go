package model

import (
	"time"
)

/*

PostLike is a "many-to-many" relation of user liking a post.

PostID: post id
UserID: user id
CreatedAt: time when relation is created

A row's existence is the like; toggling deletes or recreates the row.

*/
type PostLike struct {
	PostID    string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	CreatedAt time.Time
}

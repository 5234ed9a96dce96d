// Package protocol defines the wire contract between the squadnet gateway and
// its clients. Field names follow the JSON surface exactly; both the gin
// handlers and the sync client marshal these types directly.
package protocol

/*

User is the wire representation of a registered account.

Id: client-generated primary key
Username: login handle, matched case-insensitively at login
Password: opaque credential, compared verbatim (no hashing by design)
Friends: materialized ids of the directed friend edges originating from this
user. Directionality is preserved on the wire: B being in A's friends does not
imply the reverse.

*/
type User struct {
	Id       string   `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password,omitempty"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	Bio      string   `json:"bio"`
	Friends  []string `json:"friends"`
}

/*

Post is a status update.

Timestamp: creation time in epoch milliseconds, assigned by the client
Likes: materialized ids of users currently liking the post. Membership set
with toggle semantics, not a counter.

*/
type Post struct {
	Id        string   `json:"id"`
	UserId    string   `json:"userId"`
	Content   string   `json:"content"`
	ImageUrl  string   `json:"imageUrl,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Likes     []string `json:"likes"`
}

/*

Message is a 1:1 direct message.

ReplyToPostId: optional back-reference to the post this message replies to.
Weak reference: it is never validated against the post collection and may
dangle.
Read: receiver-side read flag, the only mutable field after creation.

*/
type Message struct {
	Id            string `json:"id"`
	SenderId      string `json:"senderId"`
	ReceiverId    string `json:"receiverId"`
	Content       string `json:"content"`
	ReplyToPostId string `json:"replyToPostId,omitempty"`
	Timestamp     int64  `json:"timestamp"`
	Read          bool   `json:"read"`
}

// Credentials is the login request payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LikeRequest toggles the requesting user's membership in a post's likes.
type LikeRequest struct {
	UserId string `json:"userId"`
}

// FriendRequest creates a single directed friend edge. No reciprocal edge is
// created by the gateway.
type FriendRequest struct {
	UserId   string `json:"userId"`
	FriendId string `json:"friendId"`
}

// UserPatch carries a partial profile update. Empty fields are left untouched;
// username and password are not patchable through this surface.
type UserPatch struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// PresenceStatus reports whether each queried user has a live heartbeat.
type PresenceStatus struct {
	Ids    []string `json:"ids"`
	Online []bool   `json:"online"`
}

// MediaUploadResponse returns the public URL of an uploaded image.
type MediaUploadResponse struct {
	Key string `json:"key"`
	Url string `json:"url"`
}

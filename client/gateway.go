package client

import (
	"context"

	"github.com/squadup/squadnet/protocol"
)

// Gateway is the sync surface the client core depends on. The production
// implementation is HTTPGateway; tests substitute FakeGateway.
type Gateway interface {
	GetUsers(ctx context.Context) ([]*protocol.User, error)
	Login(ctx context.Context, username string, password string) (*protocol.User, error)
	Register(ctx context.Context, user *protocol.User) (*protocol.User, error)
	UpdateUser(ctx context.Context, userId string, patch *protocol.UserPatch) (*protocol.User, error)

	GetPosts(ctx context.Context) ([]*protocol.Post, error)
	CreatePost(ctx context.Context, post *protocol.Post) (*protocol.Post, error)
	ToggleLike(ctx context.Context, postId string, userId string) ([]string, error)

	GetMessages(ctx context.Context) ([]*protocol.Message, error)
	SendMessage(ctx context.Context, message *protocol.Message) (*protocol.Message, error)
	MarkMessageRead(ctx context.Context, messageId string) error

	AddFriend(ctx context.Context, userId string, friendId string) error
}

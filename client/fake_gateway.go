package client

import (
	"context"
	"strings"
	"sync"

	"github.com/squadup/squadnet/protocol"
	"github.com/squadup/squadnet/utils"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// FakeGateway is an in-memory Gateway mirroring the server's semantics, for
// tests and local development. Failures are injectable per operation.
type FakeGateway struct {
	mu sync.Mutex

	Users    []*protocol.User
	Posts    []*protocol.Post
	Messages []*protocol.Message

	failing map[string]bool
}

var errInjected = errors.New("injected gateway failure")

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{failing: map[string]bool{}}
}

// Fail makes every subsequent call of the named operation fail until Recover.
func (f *FakeGateway) Fail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[op] = true
}

// Recover clears an injected failure.
func (f *FakeGateway) Recover(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failing, op)
}

func (f *FakeGateway) check(op string) error {
	if f.failing[op] {
		return errors.Wrap(errInjected, op)
	}
	return nil
}

func (f *FakeGateway) GetUsers(ctx context.Context) ([]*protocol.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("get_users"); err != nil {
		return nil, err
	}
	out := []*protocol.User{}
	copier.CopyWithOption(&out, &f.Users, copier.Option{DeepCopy: true})
	return out, nil
}

func (f *FakeGateway) Login(ctx context.Context, username string, password string) (*protocol.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("login"); err != nil {
		return nil, err
	}
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, username) && u.Password == password {
			out := protocol.User{}
			copier.CopyWithOption(&out, u, copier.Option{DeepCopy: true})
			return &out, nil
		}
	}
	return nil, errors.New("invalid credentials")
}

func (f *FakeGateway) Register(ctx context.Context, user *protocol.User) (*protocol.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("register"); err != nil {
		return nil, err
	}
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, user.Username) {
			return nil, errors.New("username taken")
		}
	}
	stored := protocol.User{}
	copier.CopyWithOption(&stored, user, copier.Option{DeepCopy: true})
	stored.Friends = []string{}
	f.Users = append(f.Users, &stored)

	out := stored
	out.Friends = []string{}
	return &out, nil
}

func (f *FakeGateway) UpdateUser(ctx context.Context, userId string, patch *protocol.UserPatch) (*protocol.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("update_user"); err != nil {
		return nil, err
	}
	for _, u := range f.Users {
		if u.Id != userId {
			continue
		}
		if patch.Name != "" {
			u.Name = patch.Name
		}
		if patch.Avatar != "" {
			u.Avatar = patch.Avatar
		}
		if patch.Bio != "" {
			u.Bio = patch.Bio
		}
		out := protocol.User{}
		copier.CopyWithOption(&out, u, copier.Option{DeepCopy: true})
		return &out, nil
	}
	return nil, errors.New("user not found")
}

func (f *FakeGateway) GetPosts(ctx context.Context) ([]*protocol.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("get_posts"); err != nil {
		return nil, err
	}
	out := []*protocol.Post{}
	copier.CopyWithOption(&out, &f.Posts, copier.Option{DeepCopy: true})
	return out, nil
}

func (f *FakeGateway) CreatePost(ctx context.Context, post *protocol.Post) (*protocol.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("create_post"); err != nil {
		return nil, err
	}
	stored := protocol.Post{}
	copier.CopyWithOption(&stored, post, copier.Option{DeepCopy: true})
	if stored.Likes == nil {
		stored.Likes = []string{}
	}
	f.Posts = append(f.Posts, &stored)
	out := stored
	return &out, nil
}

func (f *FakeGateway) ToggleLike(ctx context.Context, postId string, userId string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("toggle_like"); err != nil {
		return nil, err
	}
	for _, p := range f.Posts {
		if p.Id != postId {
			continue
		}
		if utils.ContainsString(p.Likes, userId) {
			likes := []string{}
			for _, id := range p.Likes {
				if id != userId {
					likes = append(likes, id)
				}
			}
			p.Likes = likes
		} else {
			p.Likes = append(p.Likes, userId)
		}
		return append([]string{}, p.Likes...), nil
	}
	return nil, errors.New("post not found")
}

func (f *FakeGateway) GetMessages(ctx context.Context) ([]*protocol.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("get_messages"); err != nil {
		return nil, err
	}
	out := []*protocol.Message{}
	copier.CopyWithOption(&out, &f.Messages, copier.Option{DeepCopy: true})
	return out, nil
}

func (f *FakeGateway) SendMessage(ctx context.Context, message *protocol.Message) (*protocol.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("send_message"); err != nil {
		return nil, err
	}
	stored := protocol.Message{}
	copier.CopyWithOption(&stored, message, copier.Option{DeepCopy: true})
	f.Messages = append(f.Messages, &stored)
	out := stored
	return &out, nil
}

func (f *FakeGateway) MarkMessageRead(ctx context.Context, messageId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("mark_read"); err != nil {
		return err
	}
	for _, m := range f.Messages {
		if m.Id == messageId {
			m.Read = true
		}
	}
	return nil
}

func (f *FakeGateway) AddFriend(ctx context.Context, userId string, friendId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.check("add_friend"); err != nil {
		return err
	}
	for _, u := range f.Users {
		if u.Id == userId {
			u.Friends = append(u.Friends, friendId)
			return nil
		}
	}
	return errors.New("user not found")
}

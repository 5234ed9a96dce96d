package client

import (
	"sync"

	"github.com/squadup/squadnet/protocol"
	"github.com/squadup/squadnet/utils"
	"github.com/jinzhu/copier"
)

/*

StateContainer holds the client's authoritative in-memory snapshot: the
current user plus the three remote-owned collections (users, posts, messages).

Writers fall into two groups that may interleave without mutual exclusion
between each other beyond the container lock:
1. the reconciliation loop, which replaces the three collections wholesale,
2. optimistic mutation handlers, which edit copy-on-write.

Entities handed out by this container are shared and must be treated as
read-only by callers; all internal edits replace pointers instead of mutating
in place, so any slice a caller already holds stays internally consistent.

*/
type StateContainer struct {
	mu sync.RWMutex

	currentUser *protocol.User
	users       []*protocol.User
	posts       []*protocol.Post
	messages    []*protocol.Message
}

func NewStateContainer() *StateContainer {
	return &StateContainer{}
}

// Snapshot is a deep copy of the container's full state, detached from any
// later mutation. Used for state inspection and comparison.
type Snapshot struct {
	CurrentUser *protocol.User
	Users       []*protocol.User
	Posts       []*protocol.Post
	Messages    []*protocol.Message
}

func (s *StateContainer) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	if s.currentUser != nil {
		u := protocol.User{}
		copier.CopyWithOption(&u, s.currentUser, copier.Option{DeepCopy: true})
		snap.CurrentUser = &u
	}
	copier.CopyWithOption(&snap.Users, &s.users, copier.Option{DeepCopy: true})
	copier.CopyWithOption(&snap.Posts, &s.posts, copier.Option{DeepCopy: true})
	copier.CopyWithOption(&snap.Messages, &s.messages, copier.Option{DeepCopy: true})
	return snap
}

// CurrentUser returns the session owner, nil when logged out.
func (s *StateContainer) CurrentUser() *protocol.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

// SetCurrentUser installs the session owner, typically the server-confirmed
// record from login, registration or a profile update.
func (s *StateContainer) SetCurrentUser(u *protocol.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = u
}

// Clear drops the whole snapshot on logout.
func (s *StateContainer) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = nil
	s.users = nil
	s.posts = nil
	s.messages = nil
}

// ReplaceCollections swaps all three remote-owned collections in one step so
// no reader can observe posts from one fetch paired with likes or messages
// from another. The current user record is deliberately not touched here.
func (s *StateContainer) ReplaceCollections(users []*protocol.User, posts []*protocol.Post, messages []*protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.posts = posts
	s.messages = messages
}

// ToggleLikeLocal flips the user's membership in the post's likes set,
// copy-on-write. Unknown post ids are ignored.
func (s *StateContainer) ToggleLikeLocal(postId string, userId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.Id != postId {
			continue
		}
		updated := *p
		if utils.ContainsString(p.Likes, userId) {
			updated.Likes = []string{}
			for _, id := range p.Likes {
				if id != userId {
					updated.Likes = append(updated.Likes, id)
				}
			}
		} else {
			updated.Likes = append(append([]string{}, p.Likes...), userId)
		}
		s.posts[i] = &updated
		return
	}
}

// AddFriendLocal appends the friend id to the current user's friends. No
// duplicate or self-reference check, mirroring the remote edge semantics.
func (s *StateContainer) AddFriendLocal(friendId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentUser == nil {
		return
	}
	updated := *s.currentUser
	updated.Friends = append(append([]string{}, s.currentUser.Friends...), friendId)
	s.currentUser = &updated
}

// AppendMessageLocal inserts an optimistic outgoing message.
func (s *StateContainer) AppendMessageLocal(m *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

// MarkConversationReadLocal flips the read flag on every unread message from
// peer to the current user, copy-on-write, and returns the flipped ids so the
// caller can confirm them remotely.
func (s *StateContainer) MarkConversationReadLocal(peerId string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	flipped := []string{}
	if s.currentUser == nil {
		return flipped
	}
	for i, m := range s.messages {
		if m.SenderId == peerId && m.ReceiverId == s.currentUser.Id && !m.Read {
			updated := *m
			updated.Read = true
			s.messages[i] = &updated
			flipped = append(flipped, m.Id)
		}
	}
	return flipped
}

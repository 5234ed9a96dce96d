package client

import (
	"context"
	"fmt"
	"time"

	"github.com/squadup/squadnet/protocol"
	"github.com/google/uuid"
)

const (
	defaultBio             = "Ready to play."
	defaultAvatarUrlFormat = "https://api.dicebear.com/7.x/avataaars/svg?seed=%s"
)

// resolutionPolicy defines what a mutation does about its optimistic local
// effect when the remote call fails.
type resolutionPolicy int

const (
	// keepOptimistic leaves the local effect in place and logs. Repair, if
	// any, comes from a later snapshot.
	keepOptimistic resolutionPolicy = iota
	// reconcileOnFailure pulls a full snapshot to overwrite the local effect
	// with server truth.
	reconcileOnFailure
)

// mutation names an operation and its failure policy, so the policy is
// explicit configuration rather than re-decided inside every handler.
type mutation struct {
	op        string
	onFailure resolutionPolicy
}

// finish resolves a mutation's remote outcome. Transient remote failures are
// never surfaced to the caller; the worst case is visible staleness.
func (s *Session) finish(ctx context.Context, m mutation, err error) {
	if err == nil {
		s.statsd.Incr(mutationMetric, []string{"op:" + m.op, "result:success"}, 1)
		return
	}

	s.statsd.Incr(mutationMetric, []string{"op:" + m.op, "result:failure"}, 1)
	s.log.Error(fmt.Sprint(m.op, " failed: "), err)

	if m.onFailure == reconcileOnFailure {
		if rerr := s.Refresh(ctx); rerr != nil {
			s.log.Error(fmt.Sprint("reconciliation after ", m.op, " failed: "), rerr)
		}
	}
}

func nowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// Login authenticates and starts the sync loop. Any failure, remote or
// credential, surfaces as ErrInvalidCredentials with no state change.
func (s *Session) Login(ctx context.Context, username string, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}

	user, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return ErrInvalidCredentials
	}

	s.begin(user)

	// Immediate fetch so the first interval isn't spent staring at nothing.
	if err := s.Refresh(ctx); err != nil {
		s.log.Error("initial fetch after login failed: ", err)
	}
	return nil
}

// Register creates an account, logs it in and starts the sync loop. Failures
// surface as the generic ErrRegistrationFailed with no state change.
func (s *Session) Register(ctx context.Context, name string, username string, password string, bio string) error {
	if name == "" || username == "" || password == "" {
		return ErrMissingFields
	}
	if bio == "" {
		bio = defaultBio
	}

	user := &protocol.User{
		Id:       "u_" + uuid.NewString(),
		Name:     name,
		Username: username,
		Password: password,
		Bio:      bio,
		Avatar:   fmt.Sprintf(defaultAvatarUrlFormat, username),
		Friends:  []string{},
	}

	created, err := s.gateway.Register(ctx, user)
	if err != nil {
		return ErrRegistrationFailed
	}

	s.begin(created)

	if err := s.Refresh(ctx); err != nil {
		s.log.Error("initial fetch after registration failed: ", err)
	}
	return nil
}

// CreatePost publishes a status update. There is no optimistic insert: the
// post shows up via the refresh issued on confirmation, and on failure it
// simply never appears.
func (s *Session) CreatePost(ctx context.Context, content string, imageUrl string) error {
	user := s.State.CurrentUser()
	if user == nil {
		return ErrNoActiveSession
	}
	if content == "" && imageUrl == "" {
		return ErrEmptyPost
	}

	post := &protocol.Post{
		Id:        "p_" + uuid.NewString(),
		UserId:    user.Id,
		Content:   content,
		ImageUrl:  imageUrl,
		Timestamp: nowMillis(),
		Likes:     []string{},
	}

	_, err := s.gateway.CreatePost(ctx, post)
	if err == nil {
		if rerr := s.Refresh(ctx); rerr != nil {
			s.log.Error("refresh after create post failed: ", rerr)
		}
	}
	s.finish(ctx, mutation{op: "create_post", onFailure: keepOptimistic}, err)
	return nil
}

// ToggleLike flips the current user's like on the post locally first, then
// remotely. On remote failure a full reconciliation fetch overwrites the flip
// with server truth; concurrent togglers make likes the most visible
// consistency hazard, so this is the one mutation with corrective re-fetch.
func (s *Session) ToggleLike(ctx context.Context, postId string) error {
	user := s.State.CurrentUser()
	if user == nil {
		return ErrNoActiveSession
	}

	s.State.ToggleLikeLocal(postId, user.Id)

	// The canonical likes array in the response is ignored on success; the
	// next poll carries it anyway.
	_, err := s.gateway.ToggleLike(ctx, postId, user.Id)
	s.finish(ctx, mutation{op: "toggle_like", onFailure: reconcileOnFailure}, err)
	return nil
}

// AddFriend appends the friend to the current user's list immediately, with
// no duplicate check, then records the directed edge remotely. On failure the
// optimistic append stays: no rollback and no reconciliation, the list remains
// ahead of the server until some later operation refreshes it.
func (s *Session) AddFriend(ctx context.Context, friendId string) error {
	user := s.State.CurrentUser()
	if user == nil {
		return ErrNoActiveSession
	}

	s.State.AddFriendLocal(friendId)

	err := s.gateway.AddFriend(ctx, user.Id, friendId)
	if err == nil {
		if rerr := s.Refresh(ctx); rerr != nil {
			s.log.Error("refresh after add friend failed: ", rerr)
		}
	}
	s.finish(ctx, mutation{op: "add_friend", onFailure: keepOptimistic}, err)
	return nil
}

// SendMessage appends the outgoing message locally (unread, timestamped now)
// and delivers it remotely. On failure the local copy stays.
func (s *Session) SendMessage(ctx context.Context, peerId string, content string, replyToPostId string) error {
	user := s.State.CurrentUser()
	if user == nil {
		return ErrNoActiveSession
	}
	if peerId == "" {
		return ErrNoPeerSelected
	}

	message := &protocol.Message{
		Id:            "m_" + uuid.NewString(),
		SenderId:      user.Id,
		ReceiverId:    peerId,
		Content:       content,
		ReplyToPostId: replyToPostId,
		Timestamp:     nowMillis(),
		Read:          false,
	}

	s.State.AppendMessageLocal(message)

	_, err := s.gateway.SendMessage(ctx, message)
	s.finish(ctx, mutation{op: "send_message", onFailure: keepOptimistic}, err)
	return nil
}

// UpdateProfile applies a partial profile patch. No optimistic effect: the
// confirmed record from the gateway replaces the current user on success.
func (s *Session) UpdateProfile(ctx context.Context, patch *protocol.UserPatch) error {
	user := s.State.CurrentUser()
	if user == nil {
		return ErrNoActiveSession
	}

	updated, err := s.gateway.UpdateUser(ctx, user.Id, patch)
	if err == nil && updated != nil {
		s.State.SetCurrentUser(updated)
	}
	s.finish(ctx, mutation{op: "update_profile", onFailure: keepOptimistic}, err)
	return nil
}

// MarkConversationRead flips the read flag on every unread message from the
// peer locally, then confirms each flip remotely. Failed confirmations stay
// flipped locally and are logged only.
func (s *Session) MarkConversationRead(ctx context.Context, peerId string) error {
	if s.State.CurrentUser() == nil {
		return ErrNoActiveSession
	}
	if peerId == "" {
		return ErrNoPeerSelected
	}

	var err error
	for _, id := range s.State.MarkConversationReadLocal(peerId) {
		if e := s.gateway.MarkMessageRead(ctx, id); e != nil {
			err = e
		}
	}
	s.finish(ctx, mutation{op: "mark_read", onFailure: keepOptimistic}, err)
	return nil
}

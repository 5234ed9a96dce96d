package client

import (
	"context"
	"testing"

	"github.com/squadup/squadnet/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStartsSessionWithDefaults(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.Register(ctx, "Dave", "dave", "pw", ""))

	require.True(t, session.Active())
	user := session.State.CurrentUser()
	assert.Equal(t, "Dave", user.Name)
	assert.Equal(t, defaultBio, user.Bio)
	assert.Contains(t, user.Avatar, "dave")
	assert.Empty(t, user.Friends)
	assert.Len(t, fake.Users, 4)
}

func TestRegisterRejectsMissingFieldsAndDuplicates(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()

	assert.Equal(t, ErrMissingFields, session.Register(ctx, "", "dave", "pw", ""))
	assert.Equal(t, ErrMissingFields, session.Register(ctx, "Dave", "", "pw", ""))
	assert.Equal(t, ErrMissingFields, session.Register(ctx, "Dave", "dave", "", ""))

	// Username collision is case-insensitive, like login.
	assert.Equal(t, ErrRegistrationFailed, session.Register(ctx, "Imposter", "ALICE", "pw", ""))
	assert.False(t, session.Active())
}

func TestToggleLikeTwiceRestoresOriginal(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.ToggleLike(ctx, "p1"))
	assert.Equal(t, []string{"alice"}, session.State.Snapshot().Posts[0].Likes)
	assert.Equal(t, []string{"alice"}, fake.Posts[0].Likes)

	require.NoError(t, session.ToggleLike(ctx, "p1"))
	assert.Empty(t, session.State.Snapshot().Posts[0].Likes)
	assert.Empty(t, fake.Posts[0].Likes)
}

func TestToggleLikeFailureReconcilesToServerTruth(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()

	fake.Posts[0].Likes = []string{"bob"}
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	fake.Fail("toggle_like")
	require.NoError(t, session.ToggleLike(ctx, "p1"))

	// The optimistic flip is overwritten by the corrective fetch.
	assert.Equal(t, []string{"bob"}, session.State.Snapshot().Posts[0].Likes)
	assert.Equal(t, []string{"bob"}, fake.Posts[0].Likes)
}

func TestAddFriendRecordsDirectedEdge(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.AddFriend(ctx, "carol"))

	assert.Equal(t, []string{"bob", "carol"}, session.State.CurrentUser().Friends)
	assert.Equal(t, []string{"bob", "carol"}, fake.Users[0].Friends)
	// The edge is one-way, carol gains nothing.
	assert.Empty(t, fake.Users[2].Friends)
}

func TestAddFriendFailureKeepsOptimisticAppend(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	fake.Fail("add_friend")
	require.NoError(t, session.AddFriend(ctx, "carol"))

	// No rollback, no corrective fetch. The list stays ahead of the server.
	assert.Equal(t, []string{"bob", "carol"}, session.State.CurrentUser().Friends)
	assert.Equal(t, []string{"bob"}, fake.Users[0].Friends)
}

func TestCreatePostShowsInFeedAfterConfirm(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.CreatePost(ctx, "hello", ""))

	feed := session.State.Feed()
	require.Len(t, feed, 2)
	assert.Equal(t, "hello", feed[0].Content)
	assert.Equal(t, "alice", feed[0].UserId)
	assert.Empty(t, feed[0].Likes)
}

func TestCreatePostRequiresContentOrImage(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	assert.Equal(t, ErrEmptyPost, session.CreatePost(ctx, "", ""))
	assert.NoError(t, session.CreatePost(ctx, "", "https://cdn.example.com/x.png"))
}

func TestCreatePostFailureNeverSurfaces(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	fake.Fail("create_post")
	require.NoError(t, session.CreatePost(ctx, "lost", ""))

	// No optimistic insert, so the failed post simply never appears.
	require.Len(t, session.State.Feed(), 1)
}

func TestSendMessageOptimisticAppend(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.SendMessage(ctx, "bob", "hey", ""))

	conv := session.State.Conversation("bob")
	require.Len(t, conv, 1)
	assert.Equal(t, "hey", conv[0].Content)
	assert.False(t, conv[0].Read)
	require.Len(t, fake.Messages, 1)
}

func TestSendMessageFailureKeepsLocalCopyUntilNextPoll(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	fake.Fail("send_message")
	require.NoError(t, session.SendMessage(ctx, "bob", "hey", ""))

	require.Len(t, session.State.Conversation("bob"), 1)
	assert.Empty(t, fake.Messages)

	// The next snapshot is authoritative and drops the unconfirmed message.
	require.NoError(t, session.Refresh(ctx))
	assert.Empty(t, session.State.Conversation("bob"))
}

func TestSendMessageKeepsDanglingReplyReference(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.SendMessage(ctx, "bob", "about that post", "p_deleted"))
	require.NoError(t, session.Refresh(ctx))

	conv := session.State.Conversation("bob")
	require.Len(t, conv, 1)
	assert.Equal(t, "p_deleted", conv[0].ReplyToPostId)
}

func TestSendMessageRequiresPeer(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	assert.Equal(t, ErrNoPeerSelected, session.SendMessage(ctx, "", "hey", ""))
}

func TestUpdateProfileAppliesConfirmedRecord(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	require.NoError(t, session.UpdateProfile(ctx, &protocol.UserPatch{Name: "Alice B", Bio: "new bio"}))

	user := session.State.CurrentUser()
	assert.Equal(t, "Alice B", user.Name)
	assert.Equal(t, "new bio", user.Bio)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice B", fake.Users[0].Name)
}

func TestUpdateProfileFailureKeepsLocalRecord(t *testing.T) {
	session, fake, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))

	fake.Fail("update_user")
	require.NoError(t, session.UpdateProfile(ctx, &protocol.UserPatch{Name: "Alice B"}))

	assert.Equal(t, "Alice", session.State.CurrentUser().Name)
}

func TestMarkConversationReadConfirmsRemotely(t *testing.T) {
	session, fake, _ := newTestSession(t)
	fake.Messages = []*protocol.Message{
		newMessage("m1", "bob", "alice", 100, false),
		newMessage("m2", "bob", "alice", 200, false),
		newMessage("m3", "carol", "alice", 300, false),
	}
	ctx := context.Background()
	require.NoError(t, session.Login(ctx, "alice", "pw"))
	require.Equal(t, 3, session.State.UnreadCount())

	require.NoError(t, session.MarkConversationRead(ctx, "bob"))

	assert.Equal(t, 1, session.State.UnreadCount())
	assert.True(t, fake.Messages[0].Read)
	assert.True(t, fake.Messages[1].Read)
	assert.False(t, fake.Messages[2].Read)
}

func TestMutationsRequireActiveSession(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()

	assert.Equal(t, ErrNoActiveSession, session.ToggleLike(ctx, "p1"))
	assert.Equal(t, ErrNoActiveSession, session.AddFriend(ctx, "bob"))
	assert.Equal(t, ErrNoActiveSession, session.CreatePost(ctx, "hi", ""))
	assert.Equal(t, ErrNoActiveSession, session.SendMessage(ctx, "bob", "hi", ""))
	assert.Equal(t, ErrNoActiveSession, session.UpdateProfile(ctx, &protocol.UserPatch{Name: "x"}))
	assert.Equal(t, ErrNoActiveSession, session.MarkConversationRead(ctx, "bob"))
}

package client

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/squadup/squadnet/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id string, username string, friends ...string) *protocol.User {
	if friends == nil {
		friends = []string{}
	}
	return &protocol.User{
		Id:       id,
		Username: username,
		Name:     username,
		Friends:  friends,
	}
}

func newPost(id string, userId string, ts int64) *protocol.Post {
	return &protocol.Post{
		Id:        id,
		UserId:    userId,
		Content:   "post " + id,
		Timestamp: ts,
		Likes:     []string{},
	}
}

func newMessage(id string, from string, to string, ts int64, read bool) *protocol.Message {
	return &protocol.Message{
		Id:         id,
		SenderId:   from,
		ReceiverId: to,
		Content:    "message " + id,
		Timestamp:  ts,
		Read:       read,
	}
}

func TestFeedShowsOwnAndFriendsPostsNewestFirst(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(
		[]*protocol.User{newUser("alice", "alice", "bob"), newUser("bob", "bob"), newUser("carol", "carol")},
		[]*protocol.Post{
			newPost("p1", "alice", 100),
			newPost("p2", "carol", 300),
			newPost("p3", "bob", 200),
		},
		nil,
	)

	feed := state.Feed()
	require.Len(t, feed, 2)
	// Carol is not a friend, her post never surfaces.
	assert.Equal(t, "p3", feed[0].Id)
	assert.Equal(t, "p1", feed[1].Id)
}

func TestFeedTimestampTieKeepsArrivalOrder(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(
		nil,
		[]*protocol.Post{
			newPost("first", "alice", 500),
			newPost("second", "bob", 500),
		},
		nil,
	)

	feed := state.Feed()
	require.Len(t, feed, 2)
	assert.Equal(t, "first", feed[0].Id)
	assert.Equal(t, "second", feed[1].Id)
}

func TestFeedVisibilityIsDirectional(t *testing.T) {
	state := NewStateContainer()
	// Alice follows bob, bob does not follow alice.
	posts := []*protocol.Post{newPost("pa", "alice", 100), newPost("pb", "bob", 200)}

	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(nil, posts, nil)
	require.Len(t, state.Feed(), 2)

	state.SetCurrentUser(newUser("bob", "bob"))
	feed := state.Feed()
	require.Len(t, feed, 1)
	assert.Equal(t, "pb", feed[0].Id)
}

func TestUnreadCountOnlyCountsIncomingUnread(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(nil, nil, []*protocol.Message{
		newMessage("m1", "bob", "alice", 100, false),
		newMessage("m2", "bob", "alice", 200, true),
		newMessage("m3", "alice", "bob", 300, false),
		newMessage("m4", "carol", "alice", 400, false),
	})

	assert.Equal(t, 2, state.UnreadCount())

	flipped := state.MarkConversationReadLocal("bob")
	assert.Equal(t, []string{"m1"}, flipped)
	assert.Equal(t, 1, state.UnreadCount())
}

func TestConversationListSkipsDanglingFriendEdge(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob", "ghost", "carol"))
	state.ReplaceCollections(
		[]*protocol.User{newUser("alice", "alice"), newUser("bob", "bob"), newUser("carol", "carol")},
		nil,
		[]*protocol.Message{
			newMessage("m1", "bob", "alice", 100, false),
			newMessage("m2", "alice", "bob", 200, true),
		},
	)

	list := state.ConversationList()
	require.Len(t, list, 2)

	assert.Equal(t, "bob", list[0].Friend.Id)
	require.NotNil(t, list[0].LastMessage)
	assert.Equal(t, "m2", list[0].LastMessage.Id)
	assert.True(t, list[0].Unread)

	assert.Equal(t, "carol", list[1].Friend.Id)
	assert.Nil(t, list[1].LastMessage)
	assert.False(t, list[1].Unread)
}

func TestConversationListLastMessageTiePrefersLaterArrival(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(
		[]*protocol.User{newUser("bob", "bob")},
		nil,
		[]*protocol.Message{
			newMessage("earlier", "alice", "bob", 500, true),
			newMessage("later", "bob", "alice", 500, true),
		},
	)

	list := state.ConversationList()
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastMessage)
	assert.Equal(t, "later", list[0].LastMessage.Id)
}

func TestConversationIsSymmetricAndOldestFirst(t *testing.T) {
	state := NewStateContainer()
	messages := []*protocol.Message{
		newMessage("m3", "bob", "alice", 300, false),
		newMessage("m1", "alice", "bob", 100, true),
		newMessage("m2", "bob", "alice", 200, true),
		newMessage("other", "carol", "alice", 150, false),
	}

	state.SetCurrentUser(newUser("alice", "alice", "bob"))
	state.ReplaceCollections(nil, nil, messages)
	fromAlice := state.Conversation("bob")

	state.SetCurrentUser(newUser("bob", "bob", "alice"))
	fromBob := state.Conversation("alice")

	require.Len(t, fromAlice, 3)
	assert.Equal(t, "m1", fromAlice[0].Id)
	assert.Equal(t, "m2", fromAlice[1].Id)
	assert.Equal(t, "m3", fromAlice[2].Id)

	// Both participants see the identical transcript.
	assert.Empty(t, cmp.Diff(fromAlice, fromBob))
}

func TestSnapshotIsDetachedFromLaterMutation(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice"))
	state.ReplaceCollections(nil, []*protocol.Post{newPost("p1", "alice", 100)}, nil)

	before := state.Snapshot()
	state.ToggleLikeLocal("p1", "alice")
	state.AddFriendLocal("bob")

	assert.Empty(t, before.Posts[0].Likes)
	assert.Empty(t, before.CurrentUser.Friends)
}

func TestReplaceCollectionsDoesNotTouchCurrentUser(t *testing.T) {
	state := NewStateContainer()
	state.SetCurrentUser(newUser("alice", "alice", "bob"))

	state.ReplaceCollections([]*protocol.User{newUser("alice", "alice")}, nil, nil)

	require.NotNil(t, state.CurrentUser())
	assert.Equal(t, []string{"bob"}, state.CurrentUser().Friends)
}

func TestToggleLikeLocalIsCopyOnWrite(t *testing.T) {
	state := NewStateContainer()
	original := newPost("p1", "alice", 100)
	state.SetCurrentUser(newUser("alice", "alice"))
	state.ReplaceCollections(nil, []*protocol.Post{original}, nil)

	state.ToggleLikeLocal("p1", "alice")

	// The entity handed out before the toggle is never edited in place.
	assert.Empty(t, original.Likes)
	assert.Equal(t, []string{"alice"}, state.Feed()[0].Likes)

	state.ToggleLikeLocal("p1", "alice")
	assert.Empty(t, state.Feed()[0].Likes)
}

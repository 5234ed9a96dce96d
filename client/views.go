package client

import (
	"sort"

	"github.com/squadup/squadnet/protocol"
	"github.com/squadup/squadnet/utils"
)

// Derived views are pure functions of the current snapshot, recomputed on
// every call. Read volume is small enough that memoization would only buy
// staleness bugs.

// ConversationSummary is one row of the chat list: the friend, the most
// recent message exchanged with them (nil when none yet), and whether any
// message from them is still unread.
type ConversationSummary struct {
	Friend      *protocol.User
	LastMessage *protocol.Message
	Unread      bool
}

// Feed returns posts authored by the current user or any of their friends,
// newest first. Ties on timestamp keep arrival order: the sort is stable and
// the underlying collection preserves fetch order.
func (s *StateContainer) Feed() []*protocol.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return []*protocol.Post{}
	}

	feed := []*protocol.Post{}
	for _, p := range s.posts {
		if p.UserId == s.currentUser.Id || utils.ContainsString(s.currentUser.Friends, p.UserId) {
			feed = append(feed, p)
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp > feed[j].Timestamp
	})
	return feed
}

// UnreadCount counts messages addressed to the current user that are still
// unread, across all senders. Messages the user sent never contribute.
func (s *StateContainer) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return 0
	}

	count := 0
	for _, m := range s.messages {
		if m.ReceiverId == s.currentUser.Id && !m.Read {
			count++
		}
	}
	return count
}

// ConversationList returns one summary per friend, in friends-list order.
// Friend ids with no resolvable user record are silently excluded.
func (s *StateContainer) ConversationList() []*ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return []*ConversationSummary{}
	}

	byId := map[string]*protocol.User{}
	for _, u := range s.users {
		byId[u.Id] = u
	}

	res := []*ConversationSummary{}
	for _, friendId := range s.currentUser.Friends {
		friend, ok := byId[friendId]
		if !ok {
			// Dangling friend edge, skip rather than fail.
			continue
		}

		summary := &ConversationSummary{Friend: friend}
		for _, m := range s.messages {
			if !isBetween(m, s.currentUser.Id, friendId) {
				continue
			}
			if summary.LastMessage == nil || m.Timestamp >= summary.LastMessage.Timestamp {
				summary.LastMessage = m
			}
			if m.ReceiverId == s.currentUser.Id && !m.Read {
				summary.Unread = true
			}
		}
		res = append(res, summary)
	}
	return res
}

// Conversation returns every message between the current user and the other
// user, oldest first. Ties keep arrival order.
func (s *StateContainer) Conversation(otherId string) []*protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentUser == nil {
		return []*protocol.Message{}
	}

	conv := []*protocol.Message{}
	for _, m := range s.messages {
		if isBetween(m, s.currentUser.Id, otherId) {
			conv = append(conv, m)
		}
	}
	sort.SliceStable(conv, func(i, j int) bool {
		return conv[i].Timestamp < conv[j].Timestamp
	})
	return conv
}

// isBetween reports whether m belongs to the 1:1 conversation {a, b}.
func isBetween(m *protocol.Message, a string, b string) bool {
	return (m.SenderId == a && m.ReceiverId == b) || (m.SenderId == b && m.ReceiverId == a)
}

package server

import (
	"fmt"

	"github.com/squadup/squadnet/model"
	"github.com/squadup/squadnet/protocol"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// Store is the gateway's query layer over the relational schema. Handlers stay
// thin; everything that touches the database lives here so the temp-DB tests
// can exercise it directly.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// AllUsers returns every user with friends materialized as an id array.
func (s *Store) AllUsers() ([]*protocol.User, error) {
	var users []*model.User
	if err := s.DB.Preload("Friends").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "failure when fetching users")
	}

	res := []*protocol.User{}
	for _, u := range users {
		res = append(res, u.ToProto())
	}
	return res, nil
}

// Login fetches the user matching the credential pair. Username matching is
// case-insensitive, the password is compared verbatim.
func (s *Store) Login(username string, password string) (*protocol.User, error) {
	var user model.User
	queryResult := s.DB.Preload("Friends").
		Where("lower(username) = lower(?) AND password = ?", username, password).
		First(&user)
	if queryResult.Error != nil || queryResult.RowsAffected != 1 {
		return nil, ErrInvalidCredentials
	}
	return user.ToProto(), nil
}

// Register inserts a new user. A duplicate username violates the unique index
// and surfaces as a generic registration error to the caller.
func (s *Store) Register(u *protocol.User) (*protocol.User, error) {
	entity := model.UserFromProto(u)
	if err := s.DB.Create(entity).Error; err != nil {
		return nil, errors.Wrap(err, fmt.Sprint("failure when registering user ", u.Username))
	}
	created := entity.ToProto()
	created.Friends = []string{}
	return created, nil
}

// AllPosts returns every post ordered by creation time descending, each with
// a materialized likes id array.
func (s *Store) AllPosts() ([]*protocol.Post, error) {
	var posts []*model.Post
	if err := s.DB.Preload("LikedBy").Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "failure when fetching posts")
	}

	res := []*protocol.Post{}
	for _, p := range posts {
		res = append(res, p.ToProto())
	}
	return res, nil
}

// CreatePost stores a post and echoes it back.
func (s *Store) CreatePost(p *protocol.Post) (*protocol.Post, error) {
	entity := model.PostFromProto(p)
	if err := s.DB.Create(entity).Error; err != nil {
		return nil, errors.Wrap(err, fmt.Sprint("failure when creating post ", p.Id))
	}
	created := entity.ToProto()
	created.Likes = []string{}
	return created, nil
}

// ToggleLike flips the user's membership in the post's likes set as a single
// transaction (delete-if-present else insert, then re-read) and returns the
// resulting full likes array. The single-transaction shape closes the
// check-then-act race window between concurrent togglers.
func (s *Store) ToggleLike(postId string, userId string) ([]string, error) {
	likes := []string{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postId, userId).Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&model.PostLike{PostID: postId, UserID: userId}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.PostLike{}).
			Where("post_id = ?", postId).
			Order("created_at asc").
			Pluck("user_id", &likes).Error
	})
	if err != nil {
		return nil, errors.Wrap(err, fmt.Sprint("failure when toggling like on post ", postId))
	}
	return likes, nil
}

// AllMessages returns every message ordered by creation time ascending.
func (s *Store) AllMessages() ([]*protocol.Message, error) {
	var messages []*model.Message
	if err := s.DB.Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, errors.Wrap(err, "failure when fetching messages")
	}

	res := []*protocol.Message{}
	for _, m := range messages {
		res = append(res, m.ToProto())
	}
	return res, nil
}

// CreateMessage stores a message and echoes it back. ReplyToPostId is stored
// as given, never validated against posts.
func (s *Store) CreateMessage(m *protocol.Message) (*protocol.Message, error) {
	entity := model.MessageFromProto(m)
	if err := s.DB.Create(entity).Error; err != nil {
		return nil, errors.Wrap(err, fmt.Sprint("failure when creating message ", m.Id))
	}
	return entity.ToProto(), nil
}

// MarkMessageRead flips the message's read flag to true. Flipping an already
// read message is a no-op.
func (s *Store) MarkMessageRead(messageId string) error {
	res := s.DB.Model(&model.Message{}).Where("id = ?", messageId).Update("is_read", true)
	if res.Error != nil {
		return errors.Wrap(res.Error, fmt.Sprint("failure when marking message read ", messageId))
	}
	return nil
}

// AddFriend creates the single directed edge userId -> friendId. No reciprocal
// edge is created; the edge is intentionally one-way (see DESIGN.md).
func (s *Store) AddFriend(userId string, friendId string) error {
	if err := s.DB.Create(&model.FriendEdge{UserID: userId, FriendID: friendId}).Error; err != nil {
		return errors.Wrap(err, fmt.Sprint("failure when adding friend edge ", userId, " -> ", friendId))
	}
	return nil
}

// UpdateUser applies a partial profile patch. Empty patch fields leave the
// stored value untouched; username and password are not patchable here.
func (s *Store) UpdateUser(userId string, patch *protocol.UserPatch) (*protocol.User, error) {
	var user model.User
	queryResult := s.DB.Preload("Friends").Where("id = ?", userId).First(&user)
	if queryResult.RowsAffected != 1 {
		return nil, ErrUserNotFound
	}

	updates := model.User{
		Name:      patch.Name,
		AvatarUrl: patch.Avatar,
		Bio:       patch.Bio,
	}
	if err := copier.CopyWithOption(&user, &updates, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "failure when applying profile patch")
	}

	if err := s.DB.Omit("Friends").Save(&user).Error; err != nil {
		return nil, errors.Wrap(err, fmt.Sprint("failure when updating user ", userId))
	}
	return user.ToProto(), nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/squadup/squadnet/protocol"
	Logger "github.com/squadup/squadnet/utils/log"
	"github.com/pkg/errors"
)

const defaultRequestTimeout = 10 * time.Second

// HTTPGateway talks JSON over HTTP to the squadnet gateway server.
type HTTPGateway struct {
	BaseUrl string
	client  *http.Client
}

func NewHTTPGateway(baseUrl string) *HTTPGateway {
	return &HTTPGateway{
		BaseUrl: baseUrl,
		client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

func (g *HTTPGateway) do(ctx context.Context, method string, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.BaseUrl+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, fmt.Sprint("request failed: ", method, " ", path))
	}
	defer res.Body.Close()

	if isNon200HttpResponse(res) {
		maybeLogNon200HttpError(res)
		return fmt.Errorf("non-200 http code %d: %s %s", res.StatusCode, method, path)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func isNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}

// Log http response if the error code is not 2XX
func maybeLogNon200HttpError(res *http.Response) {
	body, err := ioutil.ReadAll(res.Body)
	if err == nil {
		Logger.Log.Errorf("non-200 http code: %d, body: %s", res.StatusCode, string(body))
	}
}

func (g *HTTPGateway) GetUsers(ctx context.Context) ([]*protocol.User, error) {
	var users []*protocol.User
	err := g.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

func (g *HTTPGateway) Login(ctx context.Context, username string, password string) (*protocol.User, error) {
	var user protocol.User
	err := g.do(ctx, http.MethodPost, "/api/login", &protocol.Credentials{Username: username, Password: password}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *HTTPGateway) Register(ctx context.Context, u *protocol.User) (*protocol.User, error) {
	var created protocol.User
	err := g.do(ctx, http.MethodPost, "/api/register", u, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, userId string, patch *protocol.UserPatch) (*protocol.User, error) {
	var updated protocol.User
	err := g.do(ctx, http.MethodPut, "/api/users/"+userId, patch, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *HTTPGateway) GetPosts(ctx context.Context) ([]*protocol.Post, error) {
	var posts []*protocol.Post
	err := g.do(ctx, http.MethodGet, "/api/posts", nil, &posts)
	return posts, err
}

func (g *HTTPGateway) CreatePost(ctx context.Context, post *protocol.Post) (*protocol.Post, error) {
	var created protocol.Post
	err := g.do(ctx, http.MethodPost, "/api/posts", post, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *HTTPGateway) ToggleLike(ctx context.Context, postId string, userId string) ([]string, error) {
	var likes []string
	err := g.do(ctx, http.MethodPost, "/api/posts/"+postId+"/like", &protocol.LikeRequest{UserId: userId}, &likes)
	return likes, err
}

func (g *HTTPGateway) GetMessages(ctx context.Context) ([]*protocol.Message, error) {
	var messages []*protocol.Message
	err := g.do(ctx, http.MethodGet, "/api/messages", nil, &messages)
	return messages, err
}

func (g *HTTPGateway) SendMessage(ctx context.Context, message *protocol.Message) (*protocol.Message, error) {
	var created protocol.Message
	err := g.do(ctx, http.MethodPost, "/api/messages", message, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *HTTPGateway) MarkMessageRead(ctx context.Context, messageId string) error {
	return g.do(ctx, http.MethodPut, "/api/messages/"+messageId+"/read", nil, nil)
}

func (g *HTTPGateway) AddFriend(ctx context.Context, userId string, friendId string) error {
	return g.do(ctx, http.MethodPost, "/api/friends", &protocol.FriendRequest{UserId: userId, FriendId: friendId}, nil)
}

package server

import (
	"net/http"
	"strings"

	"github.com/squadup/squadnet/media"
	"github.com/squadup/squadnet/protocol"
	"github.com/squadup/squadnet/utils"
	Logger "github.com/squadup/squadnet/utils/log"
	"github.com/gin-gonic/gin"
)

// APIServer binds the gateway's REST surface to its collaborators: the
// relational store, the redis presence store, and the media store.
type APIServer struct {
	Store    *Store
	Presence *utils.RedisPresenceStore
	Media    media.Store
}

// RegisterRoutes attaches every gateway operation to the router.
func (s *APIServer) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/users", s.GetUsers)
	api.POST("/login", s.Login)
	api.POST("/register", s.Register)
	api.PUT("/users/:id", s.UpdateUser)

	api.GET("/posts", s.GetPosts)
	api.POST("/posts", s.CreatePost)
	api.POST("/posts/:id/like", s.ToggleLike)

	api.GET("/messages", s.GetMessages)
	api.POST("/messages", s.CreateMessage)
	api.PUT("/messages/:id/read", s.MarkMessageRead)

	api.POST("/friends", s.AddFriend)

	api.POST("/media", s.UploadMedia)
	api.POST("/presence/:id", s.Heartbeat)
	api.GET("/presence", s.GetPresence)
}

func (s *APIServer) GetUsers(c *gin.Context) {
	users, err := s.Store.AllUsers()
	if err != nil {
		Logger.Log.Error("fail to fetch users: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *APIServer) Login(c *gin.Context) {
	var creds protocol.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login failed"})
		return
	}

	user, err := s.Store.Login(creds.Username, creds.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *APIServer) Register(c *gin.Context) {
	var user protocol.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed"})
		return
	}

	created, err := s.Store.Register(&user)
	if err != nil {
		Logger.Log.Error("fail to register user: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *APIServer) UpdateUser(c *gin.Context) {
	var patch protocol.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update user"})
		return
	}

	updated, err := s.Store.UpdateUser(c.Param("id"), &patch)
	if err == ErrUserNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to update user"})
		return
	}
	if err != nil {
		Logger.Log.Error("fail to update user: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *APIServer) GetPosts(c *gin.Context) {
	posts, err := s.Store.AllPosts()
	if err != nil {
		Logger.Log.Error("fail to fetch posts: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fetch posts failed"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (s *APIServer) CreatePost(c *gin.Context) {
	var post protocol.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Create post failed"})
		return
	}

	created, err := s.Store.CreatePost(&post)
	if err != nil {
		Logger.Log.Error("fail to create post: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create post failed"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *APIServer) ToggleLike(c *gin.Context) {
	var req protocol.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Like failed"})
		return
	}

	likes, err := s.Store.ToggleLike(c.Param("id"), req.UserId)
	if err != nil {
		Logger.Log.Error("fail to toggle like: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Like failed"})
		return
	}
	c.JSON(http.StatusOK, likes)
}

func (s *APIServer) GetMessages(c *gin.Context) {
	messages, err := s.Store.AllMessages()
	if err != nil {
		Logger.Log.Error("fail to fetch messages: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fetch messages failed"})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *APIServer) CreateMessage(c *gin.Context) {
	var message protocol.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Send message failed"})
		return
	}

	created, err := s.Store.CreateMessage(&message)
	if err != nil {
		Logger.Log.Error("fail to create message: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Send message failed"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (s *APIServer) MarkMessageRead(c *gin.Context) {
	if err := s.Store.MarkMessageRead(c.Param("id")); err != nil {
		Logger.Log.Error("fail to mark message read: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *APIServer) AddFriend(c *gin.Context) {
	var req protocol.FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Add friend failed"})
		return
	}

	// Single directed edge only. The reverse edge is never created here; see
	// the friendship directionality decision in DESIGN.md.
	if err := s.Store.AddFriend(req.UserId, req.FriendId); err != nil {
		Logger.Log.Error("fail to add friend: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Add friend failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *APIServer) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload failed"})
		return
	}
	defer file.Close()

	ext := utils.GetUrlExtNameWithDot(header.Filename)
	key, err := s.Media.Save(file, ext)
	if err != nil {
		Logger.Log.Error("fail to store media: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	c.JSON(http.StatusOK, protocol.MediaUploadResponse{
		Key: key,
		Url: s.Media.GetUrlFromKey(key),
	})
}

func (s *APIServer) Heartbeat(c *gin.Context) {
	if s.Presence == nil {
		c.JSON(http.StatusOK, gin.H{"success": false})
		return
	}
	if err := s.Presence.Heartbeat(c.Request.Context(), c.Param("id")); err != nil {
		Logger.Log.Error("fail to record heartbeat: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Heartbeat failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *APIServer) GetPresence(c *gin.Context) {
	ids := []string{}
	if raw := c.Query("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	online := make([]bool, len(ids))
	if s.Presence != nil {
		status, err := s.Presence.GetOnlineStatus(c.Request.Context(), ids)
		if err != nil {
			Logger.Log.Error("fail to fetch presence: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Presence failed"})
			return
		}
		online = status
	}

	c.JSON(http.StatusOK, protocol.PresenceStatus{Ids: ids, Online: online})
}

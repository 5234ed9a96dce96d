package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/squadup/squadnet/client"
	"github.com/squadup/squadnet/enhance"
	"github.com/squadup/squadnet/utils/dotenv"
	. "github.com/squadup/squadnet/utils/log"
)

const defaultGatewayUrl = "http://localhost:8080"

// terminalClient is a line-oriented shell over the sync core, mainly for
// exercising the full stack against a running gateway.
type terminalClient struct {
	session  *client.Session
	enhancer enhance.Enhancer
	out      *bufio.Writer
}

func (t *terminalClient) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
	t.out.Flush()
}

func (t *terminalClient) showFeed() {
	for _, p := range t.session.State.Feed() {
		t.printf("[%s] %s  (%d likes)\n", p.UserId, p.Content, len(p.Likes))
	}
}

func (t *terminalClient) showChats() {
	for _, c := range t.session.State.ConversationList() {
		marker := " "
		if c.Unread {
			marker = "*"
		}
		last := ""
		if c.LastMessage != nil {
			last = c.LastMessage.Content
		}
		t.printf("%s %s (%s): %s\n", marker, c.Friend.Name, c.Friend.Id, last)
	}
	t.printf("%d unread\n", t.session.State.UnreadCount())
}

func (t *terminalClient) showConversation(ctx context.Context, peerId string) {
	for _, m := range t.session.State.Conversation(peerId) {
		t.printf("%s: %s\n", m.SenderId, m.Content)
	}
	if err := t.session.MarkConversationRead(ctx, peerId); err != nil {
		t.printf("error: %v\n", err)
	}
}

func (t *terminalClient) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "quit":
		return false
	case "login":
		if len(args) < 2 {
			t.printf("usage: login <username> <password>\n")
			return true
		}
		err = t.session.Login(ctx, args[0], args[1])
	case "register":
		if len(args) < 3 {
			t.printf("usage: register <name> <username> <password>\n")
			return true
		}
		err = t.session.Register(ctx, args[0], args[1], args[2], "")
	case "logout":
		t.session.Logout()
	case "feed":
		t.showFeed()
	case "post":
		err = t.session.CreatePost(ctx, strings.Join(args, " "), "")
	case "enhance":
		if len(args) < 2 {
			t.printf("usage: enhance <funny|poetic|excited> <text>\n")
			return true
		}
		t.printf("%s\n", t.enhancer.EnhanceStatus(ctx, strings.Join(args[1:], " "), enhance.Tone(args[0])))
	case "suggest":
		for _, reply := range t.enhancer.SuggestReplies(ctx, strings.Join(args, " ")) {
			t.printf("- %s\n", reply)
		}
	case "like":
		if len(args) < 1 {
			t.printf("usage: like <postId>\n")
			return true
		}
		err = t.session.ToggleLike(ctx, args[0])
	case "add":
		if len(args) < 1 {
			t.printf("usage: add <userId>\n")
			return true
		}
		err = t.session.AddFriend(ctx, args[0])
	case "chats":
		t.showChats()
	case "chat":
		if len(args) < 1 {
			t.printf("usage: chat <userId>\n")
			return true
		}
		t.showConversation(ctx, args[0])
	case "send":
		if len(args) < 2 {
			t.printf("usage: send <userId> <text>\n")
			return true
		}
		err = t.session.SendMessage(ctx, args[0], strings.Join(args[1:], " "), "")
	case "refresh":
		err = t.session.Refresh(ctx)
	default:
		t.printf("unknown command: %s\n", cmd)
	}

	if err != nil {
		t.printf("error: %v\n", err)
	}
	return true
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}

	gatewayUrl := os.Getenv("GATEWAY_ADDR")
	if gatewayUrl == "" {
		gatewayUrl = defaultGatewayUrl
	}

	t := &terminalClient{
		session:  client.NewSession(client.NewHTTPGateway(gatewayUrl), nil, nil),
		enhancer: enhance.NewHTTPEnhancerFromEnv(),
		out:      bufio.NewWriter(os.Stdout),
	}
	defer t.session.Logout()

	Log.Info("sync client connected to ", gatewayUrl)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	t.printf("> ")
	for scanner.Scan() {
		if !t.handle(ctx, scanner.Text()) {
			break
		}
		t.printf("> ")
	}
}

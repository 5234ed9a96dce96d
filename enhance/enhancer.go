package enhance

import (
	"context"
)

// Tone selects the rewrite style for a status update.
type Tone string

const (
	ToneFunny   Tone = "funny"
	TonePoetic  Tone = "poetic"
	ToneExcited Tone = "excited"
)

// Enhancer rewrites status text and suggests replies via a generative text
// collaborator. Implementations never fail the caller: on any problem they
// degrade to the input text or to canned replies, so composing a post works
// the same with or without the collaborator.
type Enhancer interface {
	EnhanceStatus(ctx context.Context, text string, tone Tone) string
	SuggestReplies(ctx context.Context, postContent string) []string
}

var (
	// Replies offered when the collaborator is not configured.
	unconfiguredReplies = []string{"Cool!", "Love this!", "Amazing!"}
	// Replies offered when the collaborator call fails.
	fallbackReplies = []string{"Nice!", "Wow!", "Great photo!"}
)

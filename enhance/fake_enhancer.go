package enhance

import (
	"context"
	"fmt"
)

// FakeEnhancer is a deterministic Enhancer for tests.
type FakeEnhancer struct {
	Replies []string
}

func (f *FakeEnhancer) EnhanceStatus(ctx context.Context, text string, tone Tone) string {
	return fmt.Sprintf("[%s] %s", tone, text)
}

func (f *FakeEnhancer) SuggestReplies(ctx context.Context, postContent string) []string {
	if f.Replies != nil {
		return f.Replies
	}
	return unconfiguredReplies
}

package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"webdating-engagement/internal/domain"
)

func TestContent(t *testing.T) {
	tests := []struct {
		kind domain.NotificationType
		want string
	}{
		{domain.NotifNewPost, "Lan người bạn đang theo dõi vừa đăng một bài đăng mới"},
		{domain.NotifCommentPost, "Lan vừa bình luận bài viết của bạn"},
		{domain.NotifReplyComment, "Lan vừa trả lời bình luận của bạn"},
		{domain.NotifReactionPost, "Lan vừa bày tỏ cảm xúc về bài viết của bạn"},
		{domain.NotifReactionComment, "Lan vừa bày tỏ cảm xúc về bình luận của bạn"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, ok := Content(tt.kind, "Lan")
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContent_UnknownKind(t *testing.T) {
	got, ok := Content(domain.NotificationType("FRIEND_REQUEST"), "Lan")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestContentIn(t *testing.T) {
	got, ok := ContentIn("en", domain.NotifReplyComment, "Lan")
	assert.True(t, ok)
	assert.Equal(t, "Lan replied to your comment", got)

	// Locales without a catalog use the built-in text.
	got, ok = ContentIn("fr", domain.NotifReplyComment, "Lan")
	assert.True(t, ok)
	assert.Equal(t, "Lan vừa trả lời bình luận của bạn", got)

	_, ok = ContentIn("en", domain.NotificationType("FRIEND_REQUEST"), "Lan")
	assert.False(t, ok)
}

package notification

import (
	"fmt"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/pkg/i18n"
)

// DefaultLocale is the language of the built-in templates.
const DefaultLocale = "vi"

var templates = map[domain.NotificationType]string{
	domain.NotifNewPost:         "%s người bạn đang theo dõi vừa đăng một bài đăng mới",
	domain.NotifCommentPost:     "%s vừa bình luận bài viết của bạn",
	domain.NotifReplyComment:    "%s vừa trả lời bình luận của bạn",
	domain.NotifReactionPost:    "%s vừa bày tỏ cảm xúc về bài viết của bạn",
	domain.NotifReactionComment: "%s vừa bày tỏ cảm xúc về bình luận của bạn",
}

// Content renders the notification text of kind for the acting user.
func Content(kind domain.NotificationType, displayName string) (string, bool) {
	return ContentIn(DefaultLocale, kind, displayName)
}

// ContentIn renders kind in locale, falling back to the built-in template
// when the locale has no catalog entry. Kinds outside the closed set are
// rejected even if a catalog happens to define them.
func ContentIn(locale string, kind domain.NotificationType, displayName string) (string, bool) {
	tmpl, ok := templates[kind]
	if !ok {
		return "", false
	}
	if locale != DefaultLocale {
		if translated, ok := i18n.Lookup(locale, string(kind)); ok {
			tmpl = translated
		}
	}
	return fmt.Sprintf(tmpl, displayName), true
}

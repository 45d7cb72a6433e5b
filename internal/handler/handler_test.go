package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/handler"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/mocks"
	"webdating-engagement/internal/pkg/token"
	"webdating-engagement/internal/service"
)

const testSecret = "handler-test-secret"

type testApp struct {
	app      *fiber.App
	posts    *mocks.PostService
	comments *mocks.CommentService
	reacts   *mocks.ReactionService
	notifs   *mocks.NotificationService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ta := &testApp{
		posts:    new(mocks.PostService),
		comments: new(mocks.CommentService),
		reacts:   new(mocks.ReactionService),
		notifs:   new(mocks.NotificationService),
	}
	h := handler.NewHandlers(&service.Services{
		Post:         ta.posts,
		Comment:      ta.comments,
		Reaction:     ta.reacts,
		Notification: ta.notifs,
	})

	ta.app = fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h.Register(ta.app.Group("/api/v1", middleware.AuthRequired(testSecret)))
	return ta
}

func (ta *testApp) do(t *testing.T, method, path, body string, userID int64) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		tok, err := token.Issue(userID, testSecret, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestCreateComment(t *testing.T) {
	ta := newTestApp(t)
	input := domain.CreateCommentInput{PostID: 7, ParentCommentID: 3, Content: "Hello"}
	ta.comments.On("Create", mock.Anything, int64(2), input).
		Return(&domain.CommentNode{ID: 11, PostID: 7, ParentID: 3, Content: "Hello"}, nil)

	status, body := ta.do(t, http.MethodPost, "/api/v1/comments",
		`{"post_id":7,"parent_comment_id":3,"content":"Hello"}`, 2)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Comment created", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(11), data["id"])
	assert.Equal(t, float64(3), data["parent_comment_id"])
	ta.comments.AssertExpectations(t)
}

func TestCreateComment_Validation(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/v1/comments", `{"post_id":7,"content":"   "}`, 2)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "content is required", body["message"])
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	ta.comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateComment_RequiresToken(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/v1/comments", `{"post_id":7,"content":"Hi"}`, 0)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Missing authorization header", body["message"])
}

func TestDeleteComment_Forbidden(t *testing.T) {
	ta := newTestApp(t)
	ta.comments.On("Delete", mock.Anything, int64(5), int64(9)).
		Return(domain.Forbidden("Only the author or the post owner can delete this comment"))

	status, body := ta.do(t, http.MethodDelete, "/api/v1/comments/9", "", 5)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only the author or the post owner can delete this comment", body["message"])
}

func TestCommentTree_BadID(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodGet, "/api/v1/posts/abc/comments", "", 1)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid post ID", body["message"])
}

func TestCommentTree_NotFound(t *testing.T) {
	ta := newTestApp(t)
	ta.comments.On("Tree", mock.Anything, int64(404)).Return(nil, domain.NotFound("Post not found"))

	status, body := ta.do(t, http.MethodGet, "/api/v1/posts/404/comments", "", 1)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["message"])
	assert.NotEmpty(t, body["trace_id"])
}

func TestReactToPost(t *testing.T) {
	ta := newTestApp(t)
	ta.reacts.On("React", mock.Anything, int64(2), domain.TargetPost, int64(7), domain.ReactionLove).
		Return(domain.ReactionUpdated, nil)

	status, body := ta.do(t, http.MethodPost, "/api/v1/posts/7/reactions", `{"reaction_type":"love"}`, 2)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "updated", body["data"])
	assert.Equal(t, "Reaction changed", body["message"])
}

func TestReactionRoutes_BadIDNamesTheTarget(t *testing.T) {
	ta := newTestApp(t)

	cases := []struct {
		method, path, body, message string
	}{
		{http.MethodPost, "/api/v1/posts/abc/reactions", `{"reaction_type":"like"}`, "Invalid post ID"},
		{http.MethodPost, "/api/v1/comments/abc/reactions", `{"reaction_type":"like"}`, "Invalid comment ID"},
		{http.MethodGet, "/api/v1/posts/0/reactions", "", "Invalid post ID"},
		{http.MethodGet, "/api/v1/comments/x/reactions", "", "Invalid comment ID"},
		{http.MethodGet, "/api/v1/posts/x/reactions/stats", "", "Invalid post ID"},
		{http.MethodGet, "/api/v1/comments/x/reactions/stats", "", "Invalid comment ID"},
	}
	for _, tc := range cases {
		status, body := ta.do(t, tc.method, tc.path, tc.body, 2)
		assert.Equal(t, http.StatusBadRequest, status, tc.path)
		assert.Equal(t, tc.message, body["message"], tc.path)
	}
}

func TestReactToComment_InvalidType(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, http.MethodPost, "/api/v1/comments/7/reactions", `{"reaction_type":"meh"}`, 2)

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "reaction_type must be one of like, love, haha, wow, sad, angry", body["message"])
	ta.reacts.AssertNotCalled(t, "React", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReactToPost_CommitFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.reacts.On("React", mock.Anything, int64(2), domain.TargetPost, int64(7), domain.ReactionLike).
		Return(domain.ReactionOutcome(""), domain.ErrCommit)

	status, body := ta.do(t, http.MethodPost, "/api/v1/posts/7/reactions", `{"reaction_type":"like"}`, 2)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "COMMIT_FAILED", body["code"])
	assert.Equal(t, "The change could not be saved, please try again", body["message"])
}

func TestNotifications(t *testing.T) {
	ta := newTestApp(t)
	page := domain.NewPaginatedResponse([]domain.Notification{{ID: 3, ToUserID: 1}}, domain.PaginationParams{Page: 1, PageSize: 10}, 1)
	ta.notifs.On("List", mock.Anything, int64(1), true, domain.PaginationParams{Page: 1, PageSize: 10}).Return(page, nil)
	ta.notifs.On("UnreadCount", mock.Anything, int64(1)).Return(int64(4), nil)
	ta.notifs.On("MarkAsRead", mock.Anything, int64(1), int64(3)).Return(nil)

	status, body := ta.do(t, http.MethodGet, "/api/v1/notifications?unread_only=true&page_size=10", "", 1)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["total_items"])

	status, body = ta.do(t, http.MethodGet, "/api/v1/notifications/unread-count", "", 1)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(4), body["data"].(map[string]any)["count"])

	status, _ = ta.do(t, http.MethodPatch, "/api/v1/notifications/3/read", "", 1)
	assert.Equal(t, http.StatusOK, status)

	ta.notifs.AssertExpectations(t)
}

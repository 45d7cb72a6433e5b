package comment_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/mocks"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/repository/memory"
	"webdating-engagement/internal/service/comment"
	"webdating-engagement/internal/service/notification"
	"webdating-engagement/internal/service/reaction"
)

// countingComments counts tree loads and can run a write right after a load
// has taken its snapshot.
type countingComments struct {
	repository.CommentRepository
	loads     int
	afterLoad func()
}

func (c *countingComments) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	comments, err := c.CommentRepository.ListByPost(ctx, postID)
	c.loads++
	if hook := c.afterLoad; hook != nil {
		c.afterLoad = nil
		hook()
	}
	return comments, err
}

type cachedFixture struct {
	store    *memory.Store
	mr       *miniredis.Miniredis
	comments *countingComments
	svc      comment.Service
	reacts   reaction.Service
	post     *domain.Post
}

func newCachedFixture(t *testing.T) *cachedFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := memory.NewStore()
	store.AddUser(domain.User{ID: 1, UserName: "u1", KnownAs: "Một"})
	store.AddUser(domain.User{ID: 2, UserName: "u2", KnownAs: "Hai"})
	post := &domain.Post{UserID: 1, Content: "P1"}
	store.Seed(post)

	dispatcher := new(mocks.Dispatcher)
	dispatcher.On("SendToUser", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	dispatcher.On("Broadcast", mock.Anything, mock.Anything).Return().Maybe()

	repos := store.Repositories()
	counting := &countingComments{CommentRepository: repos.Comment}
	repos.Comment = counting

	generator := notification.NewGenerator("vi")
	notifSvc := notification.NewService(repos.Notification, dispatcher, zap.NewNop())

	svc := comment.NewService(repos, store, generator, dispatcher, client, time.Minute, zap.NewNop())
	svc.SetNotificationService(notifSvc)

	reacts := reaction.NewService(repos, store, generator, zap.NewNop())
	reacts.SetNotificationService(notifSvc)
	reacts.SetTreeInvalidator(svc)

	return &cachedFixture{store: store, mr: mr, comments: counting, svc: svc, reacts: reacts, post: post}
}

func (f *cachedFixture) key() string {
	return fmt.Sprintf("comments:tree:%d", f.post.ID)
}

func (f *cachedFixture) tree(t *testing.T) []domain.CommentNode {
	t.Helper()
	nodes, err := f.svc.Tree(context.Background(), f.post.ID)
	require.NoError(t, err)
	return nodes
}

func (f *cachedFixture) create(t *testing.T, userID int64, content string) *domain.CommentNode {
	t.Helper()
	node, err := f.svc.Create(context.Background(), userID, domain.CreateCommentInput{PostID: f.post.ID, Content: content})
	require.NoError(t, err)
	return node
}

func TestTreeCache_ServesRepeatedReadsFromRedis(t *testing.T) {
	f := newCachedFixture(t)
	f.create(t, 2, "Hi")

	first := f.tree(t)
	second := f.tree(t)

	assert.Equal(t, 1, f.comments.loads)
	assert.True(t, f.mr.Exists(f.key()))
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Hi", second[0].Content)
	assert.NotNil(t, second[0].Descendants)
}

func TestTreeCache_InvalidatedByCreate(t *testing.T) {
	f := newCachedFixture(t)
	assert.Empty(t, f.tree(t))
	require.True(t, f.mr.Exists(f.key()))

	f.create(t, 2, "Hi")

	assert.False(t, f.mr.Exists(f.key()))
	nodes := f.tree(t)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Hi", nodes[0].Content)
	assert.Equal(t, 2, f.comments.loads)
}

func TestTreeCache_InvalidatedByUpdateAndDelete(t *testing.T) {
	f := newCachedFixture(t)
	ctx := context.Background()
	c := f.create(t, 2, "Hi")
	f.tree(t)

	require.NoError(t, f.svc.Update(ctx, 2, c.ID, domain.UpdateCommentInput{Content: "Edited"}))
	nodes := f.tree(t)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Edited", nodes[0].Content)

	require.NoError(t, f.svc.Delete(ctx, 2, c.ID))
	assert.Empty(t, f.tree(t))
}

func TestTreeCache_InvalidatedByCommentReaction(t *testing.T) {
	f := newCachedFixture(t)
	c := f.create(t, 2, "Hi")
	require.Empty(t, f.tree(t)[0].Stats)

	_, err := f.reacts.React(context.Background(), 1, domain.TargetComment, c.ID, domain.ReactionLike)
	require.NoError(t, err)

	nodes := f.tree(t)
	require.Len(t, nodes, 1)
	assert.Equal(t, map[domain.ReactionType]int{domain.ReactionLike: 1}, nodes[0].Stats)
}

func TestTreeCache_WriteDuringBuildIsNotMaskedByStaleTree(t *testing.T) {
	f := newCachedFixture(t)

	f.comments.afterLoad = func() {
		f.create(t, 2, "Arrived mid-build")
	}

	during := f.tree(t)
	assert.Empty(t, during, "the build saw the snapshot taken before the write")
	assert.False(t, f.mr.Exists(f.key()), "a tree built before the write must not be cached")

	after := f.tree(t)
	require.Len(t, after, 1)
	assert.Equal(t, "Arrived mid-build", after[0].Content)
	assert.Len(t, f.store.Comments(), 1)
}

func TestTreeCache_RedisDownFallsBackToStore(t *testing.T) {
	f := newCachedFixture(t)
	f.create(t, 2, "Hi")
	f.mr.Close()

	nodes := f.tree(t)
	require.Len(t, nodes, 1)
	nodes = f.tree(t)
	require.Len(t, nodes, 1)
	assert.Equal(t, 2, f.comments.loads)
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/repository"
)

var (
	errTxDone        = errors.New("memory: transaction already finished")
	errStaleSnapshot = errors.New("memory: state changed since the transaction began")
)

type view struct {
	mu    *sync.RWMutex
	st    func() *state
	store *Store
	inTx  bool
}

// changed records a write to committed state so that transactions begun
// before it can no longer commit. Callers hold the write lock.
func (v *view) changed() {
	if !v.inTx {
		v.store.version++
	}
}

func repositoriesFor(v *view) *repository.Repositories {
	return &repository.Repositories{
		User:         &userRepo{v},
		Post:         &postRepo{v},
		Comment:      &commentRepo{v},
		Reaction:     &reactionRepo{v},
		Notification: &notificationRepo{v},
	}
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

type userRepo struct{ v *view }

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	u, ok := r.v.st().users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetMany(_ context.Context, ids []int64) (map[int64]*domain.User, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	out := make(map[int64]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.v.st().users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *userRepo) FollowerIDs(_ context.Context, userID int64) ([]int64, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	ids := make([]int64, 0)
	for id := range r.v.st().follows[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

type postRepo struct{ v *view }

func (r *postRepo) Create(_ context.Context, post *domain.Post) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	post.ID = st.nextID()
	post.CreatedAt = time.Now()
	st.posts[post.ID] = *post
	return nil
}

func (r *postRepo) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	p, ok := r.v.st().posts[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type commentRepo struct{ v *view }

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	if _, ok := st.posts[comment.PostID]; !ok {
		return fmt.Errorf("memory: post %d does not exist", comment.PostID)
	}
	comment.ID = st.nextID()
	comment.CreatedAt = time.Now()
	st.comments[comment.ID] = *comment
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	c, ok := r.v.st().comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *commentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	stored, ok := st.comments[comment.ID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	stored.Content = comment.Content
	stored.UpdatedAt = &now
	st.comments[comment.ID] = stored
	comment.UpdatedAt = &now
	return nil
}

func (r *commentRepo) DeleteSubtree(_ context.Context, id int64) (int64, error) {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	if _, ok := st.comments[id]; !ok {
		return 0, nil
	}

	doomed := map[int64]bool{id: true}
	for grew := true; grew; {
		grew = false
		for cid, c := range st.comments {
			if !doomed[cid] && doomed[c.ParentID] {
				doomed[cid] = true
				grew = true
			}
		}
	}

	for cid := range doomed {
		delete(st.comments, cid)
	}
	for rid, rl := range st.reactions {
		if rl.CommentID != nil && doomed[*rl.CommentID] {
			delete(st.reactions, rid)
		}
	}
	for nid, n := range st.notifications {
		if n.CommentID != nil && doomed[*n.CommentID] {
			n.CommentID = nil
			st.notifications[nid] = n
		}
	}
	return int64(len(doomed)), nil
}

func (r *commentRepo) ListByPost(_ context.Context, postID int64) ([]domain.Comment, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	all := sortedValues(r.v.st().comments, func(c domain.Comment) int64 { return c.ID })
	out := make([]domain.Comment, 0, len(all))
	for _, c := range all {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type reactionRepo struct{ v *view }

func findReaction(st *state, userID int64, target domain.ReactionTarget, targetID int64) *domain.ReactionLog {
	for _, rl := range st.reactions {
		if rl.UserID == userID && rl.Target == target && rl.TargetID() == targetID {
			found := rl
			return &found
		}
	}
	return nil
}

func (r *reactionRepo) Find(_ context.Context, userID int64, target domain.ReactionTarget, targetID int64) (*domain.ReactionLog, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	return findReaction(r.v.st(), userID, target, targetID), nil
}

func (r *reactionRepo) Create(_ context.Context, reaction *domain.ReactionLog) error {
	if hook := r.v.store.BeforeReactionCreate; hook != nil {
		hook()
	}

	// A row committed by another writer after this transaction started still
	// violates the unique index.
	if r.v.inTx && r.v.store.hasReaction(reaction.UserID, reaction.Target, reaction.TargetID()) {
		return fmt.Errorf("%w: reaction of user %d", domain.ErrDuplicate, reaction.UserID)
	}

	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	if findReaction(st, reaction.UserID, reaction.Target, reaction.TargetID()) != nil {
		return fmt.Errorf("%w: reaction of user %d", domain.ErrDuplicate, reaction.UserID)
	}
	reaction.ID = st.nextID()
	reaction.CreatedAt = time.Now()
	st.reactions[reaction.ID] = *reaction
	return nil
}

func (r *reactionRepo) UpdateType(_ context.Context, id int64, reactionType domain.ReactionType) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	if rl, ok := st.reactions[id]; ok {
		rl.Type = reactionType
		st.reactions[id] = rl
	}
	return nil
}

func (r *reactionRepo) Delete(_ context.Context, id int64) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	delete(r.v.st().reactions, id)
	return nil
}

func (r *reactionRepo) CountByTarget(_ context.Context, target domain.ReactionTarget, targetID int64) (map[domain.ReactionType]int, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	counts := map[domain.ReactionType]int{}
	for _, rl := range r.v.st().reactions {
		if rl.Target == target && rl.TargetID() == targetID {
			counts[rl.Type]++
		}
	}
	return counts, nil
}

func (r *reactionRepo) CommentStatsByPost(_ context.Context, postID int64) ([]domain.CommentReactionCount, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	st := r.v.st()

	type key struct {
		commentID int64
		kind      domain.ReactionType
	}
	counts := map[key]int{}
	for _, rl := range st.reactions {
		if rl.CommentID == nil {
			continue
		}
		if c, ok := st.comments[*rl.CommentID]; ok && c.PostID == postID {
			counts[key{*rl.CommentID, rl.Type}]++
		}
	}

	out := make([]domain.CommentReactionCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.CommentReactionCount{CommentID: k.commentID, Type: k.kind, Count: n})
	}
	return out, nil
}

func (r *reactionRepo) ListByTarget(_ context.Context, target domain.ReactionTarget, targetID int64) ([]domain.ReactionLog, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	all := sortedValues(r.v.st().reactions, func(rl domain.ReactionLog) int64 { return rl.ID })
	out := make([]domain.ReactionLog, 0, len(all))
	for _, rl := range all {
		if rl.Target == target && rl.TargetID() == targetID {
			out = append(out, rl)
		}
	}
	return out, nil
}

type notificationRepo struct{ v *view }

func (r *notificationRepo) Create(_ context.Context, notif *domain.Notification) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	if notif.Status == "" {
		notif.Status = domain.NotificationUnread
	}
	notif.ID = st.nextID()
	notif.CreatedAt = time.Now()
	st.notifications[notif.ID] = *notif
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *notificationRepo) Exists(_ context.Context, notif *domain.Notification) (bool, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	for _, n := range r.v.st().notifications {
		if n.Type == notif.Type && n.ToUserID == notif.ToUserID && sameID(n.FromUserID, notif.FromUserID) &&
			sameID(n.PostID, notif.PostID) && sameID(n.CommentID, notif.CommentID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID int64, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	params.Normalize()

	all := sortedValues(r.v.st().notifications, func(n domain.Notification) int64 { return -n.ID })
	matched := make([]domain.Notification, 0)
	for _, n := range all {
		if n.ToUserID != userID || (unreadOnly && n.Status != domain.NotificationUnread) {
			continue
		}
		matched = append(matched, n)
	}

	total := int64(len(matched))
	start := params.Offset()
	if start >= len(matched) {
		return []domain.Notification{}, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *notificationRepo) MarkAsRead(_ context.Context, userID, id int64) error {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	n, ok := st.notifications[id]
	if !ok || n.ToUserID != userID {
		return domain.ErrNotFound
	}
	n.Status = domain.NotificationRead
	st.notifications[id] = n
	return nil
}

func (r *notificationRepo) MarkAllAsRead(_ context.Context, userID int64) (int64, error) {
	r.v.mu.Lock()
	defer r.v.mu.Unlock()
	r.v.changed()
	st := r.v.st()
	var changed int64
	for id, n := range st.notifications {
		if n.ToUserID == userID && n.Status == domain.NotificationUnread {
			n.Status = domain.NotificationRead
			st.notifications[id] = n
			changed++
		}
	}
	return changed, nil
}

func (r *notificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	r.v.mu.RLock()
	defer r.v.mu.RUnlock()
	var count int64
	for _, n := range r.v.st().notifications {
		if n.ToUserID == userID && n.Status == domain.NotificationUnread {
			count++
		}
	}
	return count, nil
}

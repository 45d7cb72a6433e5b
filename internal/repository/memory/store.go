// Package memory is an in-process implementation of the repository
// interfaces, used by service tests and local experiments.
package memory

import (
	"context"
	"sync"

	"webdating-engagement/internal/domain"
	"webdating-engagement/internal/repository"
)

type state struct {
	users         map[int64]domain.User
	follows       map[int64]map[int64]bool
	posts         map[int64]domain.Post
	comments      map[int64]domain.Comment
	reactions     map[int64]domain.ReactionLog
	notifications map[int64]domain.Notification
	seq           int64
}

func newState() *state {
	return &state{
		users:         map[int64]domain.User{},
		follows:       map[int64]map[int64]bool{},
		posts:         map[int64]domain.Post{},
		comments:      map[int64]domain.Comment{},
		reactions:     map[int64]domain.ReactionLog{},
		notifications: map[int64]domain.Notification{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.follows {
		f := make(map[int64]bool, len(v))
		for id := range v {
			f[id] = true
		}
		c.follows[k] = f
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.comments {
		c.comments[k] = v
	}
	for k, v := range s.reactions {
		c.reactions[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// Store keeps committed state. Transactions work on a private copy that
// replaces the committed state on Commit. A transaction that overlaps
// another committed write fails to commit instead of overwriting it.
type Store struct {
	mu sync.RWMutex
	st *state

	// FailCommit, when set, is returned by every Commit and the transaction's
	// changes are discarded.
	FailCommit error
	// BeforeReactionCreate runs inside ReactionRepository.Create before the
	// uniqueness check, letting tests interleave a competing writer.
	BeforeReactionCreate func()

	commits int
	// version counts writes to the committed state. A transaction whose
	// snapshot is older than the current version is rejected on Commit.
	version int64
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) Repositories() *repository.Repositories {
	return repositoriesFor(&view{mu: &s.mu, st: func() *state { return s.st }, store: s})
}

func (s *Store) Begin(ctx context.Context) (repository.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	snapshot := s.st.clone()
	base := s.version
	s.mu.RUnlock()

	t := &tx{store: s, st: snapshot, base: base, ctx: ctx}
	t.repos = repositoriesFor(&view{mu: &t.mu, st: func() *state { return t.st }, store: s, inTx: true})
	return t, nil
}

// Commits reports how many transactions were committed successfully.
func (s *Store) Commits() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits
}

func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	if u.ID == 0 {
		u.ID = s.st.nextID()
	} else if u.ID > s.st.seq {
		s.st.seq = u.ID
	}
	s.st.users[u.ID] = u
}

func (s *Store) Follow(followerID, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	if s.st.follows[userID] == nil {
		s.st.follows[userID] = map[int64]bool{}
	}
	s.st.follows[userID][followerID] = true
}

// Seed stores records as if they had been committed by another writer.
func (s *Store) Seed(records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	for _, rec := range records {
		switch v := rec.(type) {
		case *domain.Post:
			v.ID = s.st.nextID()
			s.st.posts[v.ID] = *v
		case *domain.Comment:
			v.ID = s.st.nextID()
			s.st.comments[v.ID] = *v
		case *domain.ReactionLog:
			v.ID = s.st.nextID()
			s.st.reactions[v.ID] = *v
		case *domain.Notification:
			v.ID = s.st.nextID()
			s.st.notifications[v.ID] = *v
		}
	}
}

func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.st.notifications, func(n domain.Notification) int64 { return n.ID })
}

func (s *Store) Reactions() []domain.ReactionLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.st.reactions, func(r domain.ReactionLog) int64 { return r.ID })
}

func (s *Store) Comments() []domain.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.st.comments, func(c domain.Comment) int64 { return c.ID })
}

func (s *Store) hasReaction(userID int64, target domain.ReactionTarget, targetID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findReaction(s.st, userID, target, targetID) != nil
}

type tx struct {
	mu    sync.RWMutex
	store *Store
	st    *state
	base  int64
	ctx   context.Context
	repos *repository.Repositories
	done  bool
}

func (t *tx) Posts() repository.PostRepository                 { return t.repos.Post }
func (t *tx) Comments() repository.CommentRepository           { return t.repos.Comment }
func (t *tx) Reactions() repository.ReactionRepository         { return t.repos.Reaction }
func (t *tx) Notifications() repository.NotificationRepository { return t.repos.Notification }

func (t *tx) Commit() error {
	if t.done {
		return errTxDone
	}
	t.done = true
	if err := t.ctx.Err(); err != nil {
		return err
	}
	if t.store.FailCommit != nil {
		return t.store.FailCommit
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.store.version != t.base {
		return errStaleSnapshot
	}
	t.store.st = t.st
	t.store.version++
	t.store.commits++
	return nil
}

func (t *tx) Rollback() error {
	t.done = true
	return nil
}

var _ repository.UnitOfWork = (*Store)(nil)

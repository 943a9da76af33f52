package memstore

import (
	"context"
	"fmt"

	"github.com/fastprodman/walletsvc/internal/domain"
)

type sessionKey struct{}

type session struct {
	wallets map[int64]domain.Wallet
	txns    map[int64]domain.Transaction
	held    map[string]chan struct{}
}

func sessionFrom(ctx context.Context) (*session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*session)
	return sess, ok && sess != nil
}

// Do runs fn as one unit of work. Writes made through ctx become visible to
// others only if fn returns nil and ctx is still live; row locks are released
// afterwards either way. Nested calls join the outer unit of work.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := sessionFrom(ctx); ok {
		return fn(ctx)
	}

	sess := &session{
		wallets: make(map[int64]domain.Wallet),
		txns:    make(map[int64]domain.Transaction),
		held:    make(map[string]chan struct{}),
	}
	defer sess.release()

	err := fn(context.WithValue(ctx, sessionKey{}, sess))
	if err != nil {
		return err
	}

	err = ctx.Err()
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.commit(sess)

	return nil
}

func (s *Store) commit(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, w := range sess.wallets {
		s.wallets[id] = w
	}

	for id, t := range sess.txns {
		s.txns[id] = t
	}
}

// lock blocks until the row behind key is free or ctx is done.
func (s *Store) lock(ctx context.Context, sess *session, key string) error {
	if _, ok := sess.held[key]; ok {
		return nil
	}

	ch := s.lockChan(key)

	select {
	case ch <- struct{}{}:
		sess.held[key] = ch

		return nil
	case <-ctx.Done():
		return fmt.Errorf("acquire %s: %w", key, ctx.Err())
	}
}

func (sess *session) release() {
	for key, ch := range sess.held {
		<-ch
		delete(sess.held, key)
	}
}

// Package session drives session lifecycle: boot-time restoration from
// a persisted token, login/logout, and the teardown triggered by an
// unauthorized backend response.
package session

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/Steerify/Suretruqs-sub000/internal/backend"
	"github.com/Steerify/Suretruqs-sub000/internal/domain"
	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// PushConn is the connect/disconnect surface of the push channel.
type PushConn interface {
	Connect(ctx context.Context) error
	Disconnect()
}

// Bootstrapper validates the persisted token at startup and, once the
// identity is confirmed, fans out the best-effort secondary loads. The
// Initializing flag gates protected views and always reaches false.
type Bootstrapper struct {
	tokens     TokenStore
	identity   backend.IdentityAPI
	reconciler *syncpkg.Reconciler
	channel    PushConn

	initializing atomic.Bool
}

// New wires a Bootstrapper and registers session teardown with the
// reconciler: an observed 401 clears the token and drops the channel.
func New(tokens TokenStore, identity backend.IdentityAPI, reconciler *syncpkg.Reconciler, channel PushConn) *Bootstrapper {
	b := &Bootstrapper{
		tokens:     tokens,
		identity:   identity,
		reconciler: reconciler,
		channel:    channel,
	}
	b.initializing.Store(true)
	reconciler.OnSessionEnd(func() {
		if err := tokens.Clear(); err != nil {
			log.Printf("session: token clear failed: %v", err)
		}
		channel.Disconnect()
	})
	return b
}

// Initializing reports whether the boot sequence is still running. No
// protected view may render while true.
func (b *Bootstrapper) Initializing() bool {
	return b.initializing.Load()
}

// Run restores the session from the persisted token. A missing token
// finishes initialization with no session; that is not an error. Only
// an explicit unauthorized response clears the token; any other
// identity-fetch failure leaves it in place for the next boot.
func (b *Bootstrapper) Run(ctx context.Context) {
	defer b.initializing.Store(false)

	token := b.tokens.Token()
	if token == "" {
		return
	}
	if Expired(token) {
		log.Printf("session: persisted token expired, skipping validation")
		_ = b.tokens.Clear()
		return
	}

	user, err := b.identity.Me(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			log.Printf("session: persisted token rejected")
			_ = b.tokens.Clear()
		} else {
			log.Printf("session: identity validation failed: %v", err)
		}
		return
	}

	b.establish(ctx, user)
}

// Login exchanges credentials for a session.
func (b *Bootstrapper) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, token, err := b.identity.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := b.tokens.Save(token); err != nil {
		log.Printf("session: token persist failed: %v", err)
	}
	b.establish(ctx, user)
	return user, nil
}

// Logout destroys the session explicitly.
func (b *Bootstrapper) Logout() {
	if err := b.tokens.Clear(); err != nil {
		log.Printf("session: token clear failed: %v", err)
	}
	b.reconciler.Reset()
	b.channel.Disconnect()
}

// establish installs the identity, connects the push channel and runs
// the secondary loads. Push and secondary failures are logged and
// swallowed: the validated identity stands.
func (b *Bootstrapper) establish(ctx context.Context, user *domain.User) {
	b.reconciler.SetUser(user)

	if err := b.channel.Connect(ctx); err != nil {
		log.Printf("session: push channel connect failed: %v", err)
	}

	b.reconciler.LoadInitial(ctx)
}

// Package links keeps the list of time-bounded download links issued during
// the life of the process and counts them down to expiry.
package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"secure.links/internal/crypto"
	"secure.links/internal/models"
	"secure.links/internal/store"
)

const (
	DefaultLifetime     = 5 * time.Minute
	DefaultTickInterval = time.Second
)

// Notifier receives a newest-first snapshot after every change to the list.
// Calls are serialized and arrive in the order the changes happened.
type Notifier interface {
	LinksChanged(links []models.SecureLink)
}

type Options struct {
	Lifetime     time.Duration
	TickInterval time.Duration
	// TickStep is subtracted from every active link on each tick.
	// Defaults to TickInterval.
	TickStep time.Duration
	BaseURL  string

	Store    store.Store
	Notifier Notifier
	Logger   *slog.Logger

	Now      func() time.Time
	NewToken func() string
}

type Registry struct {
	opts Options

	mu      sync.RWMutex
	links   []*models.SecureLink // oldest first
	byID    map[string]*models.SecureLink
	byToken map[string]*models.SecureLink

	pubMu sync.Mutex

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRegistry(opts Options) *Registry {
	if opts.Lifetime <= 0 {
		opts.Lifetime = DefaultLifetime
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.TickStep <= 0 {
		opts.TickStep = opts.TickInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewToken == nil {
		opts.NewToken = crypto.GenerateToken
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	return &Registry{
		opts:    opts,
		byID:    make(map[string]*models.SecureLink),
		byToken: make(map[string]*models.SecureLink),
	}
}

// Generate issues a new link for doc and puts it at the head of the list.
// A nil or unauthenticated session gets ErrAuthRequired and nothing is inserted.
func (r *Registry) Generate(ctx context.Context, sess *models.Session, doc models.Document) (models.SecureLink, error) {
	if err := Authorize(sess); err != nil {
		return models.SecureLink{}, err
	}

	now := r.opts.Now()
	token := r.opts.NewToken()
	expiresAt := now.Add(r.opts.Lifetime)

	link := &models.SecureLink{
		ID:           crypto.GenerateID(),
		DocumentID:   doc.ID,
		DocumentName: doc.Name,
		Token:        token,
		Link:         r.opts.BaseURL + "/dl/" + token,
		ExpiresAt:    expiresAt,
		ExpiresLabel: expiresAt.Format("15:04:05"),
		Remaining:    r.opts.Lifetime,
		CreatedAt:    now,
	}
	setRemaining(link, r.opts.Lifetime)

	if r.opts.Store != nil {
		record := &models.LinkRecord{
			Token:        token,
			LinkID:       link.ID,
			DocumentID:   doc.ID,
			DocumentName: doc.Name,
			ExpiresAt:    expiresAt,
		}
		if err := r.opts.Store.Save(ctx, record); err != nil {
			return models.SecureLink{}, fmt.Errorf("indexing link: %w", err)
		}
	}

	r.mu.Lock()
	r.links = append(r.links, link)
	r.byID[link.ID] = link
	r.byToken[link.Token] = link
	linksActive.Set(float64(r.activeLocked()))
	created := *link
	r.mu.Unlock()

	linksGeneratedTotal.Inc()
	r.opts.Logger.Info("link generated",
		slog.String("link_id", created.ID),
		slog.String("document", created.DocumentName),
		slog.Time("expires_at", created.ExpiresAt),
	)
	r.publish()

	return created, nil
}

// Tick advances every active link by one step and returns the links that
// expired on this tick. Expired links are left untouched.
func (r *Registry) Tick() []models.SecureLink {
	expired, _ := r.advance()
	return expired
}

// List returns all issued links, newest first.
func (r *Registry) List() []models.SecureLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Registry) Get(id string) (models.SecureLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.byID[id]
	if !ok {
		return models.SecureLink{}, ErrNotFound
	}
	return *link, nil
}

// Resolve maps a download token to the document it grants access to.
// For links issued by this process the countdown is authoritative, so
// Resolve agrees with List even when ticks run late. Tokens issued
// elsewhere fall through to the store, which expires them by wall clock.
func (r *Registry) Resolve(ctx context.Context, token string) (*models.LinkRecord, error) {
	r.mu.RLock()
	link, ok := r.byToken[token]
	var local models.SecureLink
	if ok {
		local = *link
	}
	r.mu.RUnlock()

	if ok {
		switch {
		case local.Revoked:
			return nil, ErrRevoked
		case !local.Active:
			return nil, ErrExpired
		}
		return &models.LinkRecord{
			Token:        local.Token,
			LinkID:       local.ID,
			DocumentID:   local.DocumentID,
			DocumentName: local.DocumentName,
			ExpiresAt:    local.ExpiresAt,
		}, nil
	}

	if r.opts.Store == nil {
		return nil, ErrNotFound
	}

	record, err := r.opts.Store.Get(ctx, token)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, store.ErrExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("resolving token: %w", err)
	}
	return record, nil
}

// Revoke expires an active link immediately. Revoking a link that has
// already expired returns it unchanged.
func (r *Registry) Revoke(ctx context.Context, id string) (models.SecureLink, error) {
	r.mu.Lock()
	link, ok := r.byID[id]
	if !ok {
		r.mu.Unlock()
		return models.SecureLink{}, ErrNotFound
	}
	if !link.Active {
		out := *link
		r.mu.Unlock()
		return out, nil
	}

	setRemaining(link, 0)
	link.Revoked = true
	linksActive.Set(float64(r.activeLocked()))
	out := *link
	r.mu.Unlock()

	linksRevokedTotal.Inc()
	r.opts.Logger.Info("link revoked", slog.String("link_id", out.ID))
	r.unindex(ctx, out)
	r.publish()

	return out, nil
}

// Start launches the countdown loop. The loop stops when ctx is cancelled
// or Stop is called; after either, Start may be called again. Calling Start
// on a running registry does nothing.
func (r *Registry) Start(ctx context.Context) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.tickLoop(ctx, r.done)
}

// Stop cancels the countdown loop and waits for it to exit.
func (r *Registry) Stop() {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
	r.done = nil
}

func (r *Registry) tickLoop(ctx context.Context, done chan struct{}) {
	defer func() {
		close(done)

		// Stop clears the state itself; only a loop ended by its parent
		// context gets here with its own done still registered.
		r.runMu.Lock()
		if r.done == done {
			r.cancel()
			r.cancel = nil
			r.done = nil
		}
		r.runMu.Unlock()
	}()

	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, changed := r.advance()
			for _, link := range expired {
				r.opts.Logger.Info("link expired", slog.String("link_id", link.ID))
				r.unindex(ctx, link)
			}
			if changed {
				r.publish()
			}
		}
	}
}

func (r *Registry) advance() (expired []models.SecureLink, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, link := range r.links {
		if !link.Active {
			continue
		}
		changed = true
		remaining := link.Remaining - r.opts.TickStep
		if remaining < 0 {
			remaining = 0
		}
		setRemaining(link, remaining)
		if !link.Active {
			expired = append(expired, *link)
		}
	}

	if len(expired) > 0 {
		linksExpiredTotal.Add(float64(len(expired)))
	}
	if changed {
		linksActive.Set(float64(r.activeLocked()))
	}
	return expired, changed
}

func (r *Registry) unindex(ctx context.Context, link models.SecureLink) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.Delete(ctx, link.Token); err != nil {
		r.opts.Logger.Warn("failed to drop link from index",
			slog.String("link_id", link.ID),
			slog.Any("error", err),
		)
	}
}

// publish hands the current list to the notifier. The snapshot is taken
// under pubMu so a slower caller can never deliver an older list after a
// newer one.
func (r *Registry) publish() {
	if r.opts.Notifier == nil {
		return
	}
	r.pubMu.Lock()
	defer r.pubMu.Unlock()
	r.opts.Notifier.LinksChanged(r.List())
}

func (r *Registry) snapshotLocked() []models.SecureLink {
	out := make([]models.SecureLink, 0, len(r.links))
	for i := len(r.links) - 1; i >= 0; i-- {
		out = append(out, *r.links[i])
	}
	return out
}

func (r *Registry) activeLocked() int {
	n := 0
	for _, link := range r.links {
		if link.Active {
			n++
		}
	}
	return n
}

// setRemaining keeps Active and RemainingMinutes in step with Remaining.
func setRemaining(link *models.SecureLink, remaining time.Duration) {
	link.Remaining = remaining
	link.RemainingMinutes = remaining.Minutes()
	link.Active = remaining > 0
}

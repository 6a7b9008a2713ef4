package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/RosuMadalin/tracking-tradings/internal/telemetry"
)

// Entry is one cached payload together with the moment it was fetched and
// the exact query scope it answers.
type Entry[T any] struct {
	Payload    T         `json:"payload"`
	FetchedAt  time.Time `json:"fetched_at"`
	KeyContext string    `json:"key_context"`
}

// ValidFor reports whether the entry may be served for keyContext at now.
// The key must match verbatim; a subset or superset scope is a miss.
func (e Entry[T]) ValidFor(keyContext string, ttl time.Duration, now time.Time) bool {
	if e.KeyContext != keyContext {
		return false
	}
	return now.Sub(e.FetchedAt) < ttl
}

// Tier is one storage level the resolver reads from and writes back to.
type Tier[T any] interface {
	Name() string
	Lookup(ctx context.Context, keyContext string) (Entry[T], bool, error)
	Store(ctx context.Context, entry Entry[T]) error
}

type Fetcher[T any] func(ctx context.Context) (T, error)

type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
)

// Resolver is a staleness-gated read-through cache over an ordered list of
// tiers. Tiers are consulted first to last; a fresh refresh is written to all
// of them.
type Resolver[T any] struct {
	namespace string
	tiers     []Tier[T]
	now       func() time.Time
}

func NewResolver[T any](namespace string, tiers ...Tier[T]) *Resolver[T] {
	return &Resolver[T]{
		namespace: namespace,
		tiers:     tiers,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (r *Resolver[T]) WithClock(now func() time.Time) *Resolver[T] {
	r.now = now
	return r
}

func (r *Resolver[T]) Namespace() string {
	return r.namespace
}

func (r *Resolver[T]) Resolve(ctx context.Context, keyContext string, ttl time.Duration, fetch Fetcher[T]) (Entry[T], Outcome, error) {
	now := r.now()

	for _, tier := range r.tiers {
		entry, ok, err := tier.Lookup(ctx, keyContext)
		if err != nil {
			slog.Warn("cache tier lookup failed", "namespace", r.namespace, "tier", tier.Name(), "key", keyContext, "error", err)
			continue
		}
		if ok && entry.ValidFor(keyContext, ttl, now) {
			telemetry.CacheHit(r.namespace)
			return entry, OutcomeHit, nil
		}
	}

	telemetry.CacheMiss(r.namespace)

	payload, err := fetch(ctx)
	if err != nil {
		telemetry.CacheFetchFailure(r.namespace)
		return Entry[T]{}, OutcomeMiss, err
	}

	entry := Entry[T]{
		Payload:    payload,
		FetchedAt:  now,
		KeyContext: keyContext,
	}

	for _, tier := range r.tiers {
		if err := tier.Store(ctx, entry); err != nil {
			telemetry.CacheTierWriteFailure(r.namespace)
			slog.Error("cache tier write failed", "namespace", r.namespace, "tier", tier.Name(), "key", keyContext, "error", err)
		}
	}

	return entry, OutcomeMiss, nil
}

package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
)

const snapshotVersion = 1

// userSnapshot is the cache payload: the subset of the user row that
// authorization decisions need, versioned so the shape can evolve
// independently of the storage schema.
type userSnapshot struct {
	Version     int         `json:"v"`
	ID          uint64      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar,omitempty"`
	IsActive    bool        `json:"is_active"`
	IsConfirmed bool        `json:"is_confirmed"`
	Role        entity.Role `json:"role"`
}

// UserCache maps email -> identity snapshot with a fixed TTL. It is an
// optimization only: every failure degrades to a directory lookup and is
// logged, never surfaced.
type UserCache struct {
	store Store
	ttl   time.Duration
}

func NewUserCache(store Store, ttl time.Duration) *UserCache {
	return &UserCache{store: store, ttl: ttl}
}

// Get returns the cached user, or nil on a miss or any store error.
func (c *UserCache) Get(ctx context.Context, email string) *entity.User {
	data, err := c.store.Get(ctx, key(email))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logrus.WithError(err).WithField("email", email).Warn("User cache get failed")
		}
		return nil
	}

	var snap userSnapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != snapshotVersion {
		// Stale or foreign payload shape, treat as a miss.
		return nil
	}

	user := &entity.User{
		ID:          snap.ID,
		Username:    snap.Username,
		Email:       snap.Email,
		IsActive:    snap.IsActive,
		IsConfirmed: snap.IsConfirmed,
		Role:        snap.Role,
	}
	if snap.Avatar != "" {
		user.Avatar = sql.NullString{String: snap.Avatar, Valid: true}
	}
	return user
}

func (c *UserCache) Set(ctx context.Context, user *entity.User) {
	snap := userSnapshot{
		Version:     snapshotVersion,
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActive:    user.IsActive,
		IsConfirmed: user.IsConfirmed,
		Role:        user.Role,
	}
	if user.Avatar.Valid {
		snap.Avatar = user.Avatar.String
	}

	data, err := json.Marshal(snap)
	if err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("User cache marshal failed")
		return
	}

	k := key(user.Email)
	if err := c.store.Set(ctx, k, data); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("User cache set failed")
		return
	}
	if err := c.store.Expire(ctx, k, c.ttl); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("User cache expire failed")
	}
}

// Invalidate drops the entry. Every write path that mutates a user record
// must call this (or Set with the fresh record) so staleness never exceeds
// the TTL window.
func (c *UserCache) Invalidate(ctx context.Context, email string) {
	if err := c.store.Del(ctx, key(email)); err != nil && !errors.Is(err, ErrNotFound) {
		logrus.WithError(err).WithField("email", email).Warn("User cache invalidate failed")
	}
}

func key(email string) string {
	return "user:" + email
}

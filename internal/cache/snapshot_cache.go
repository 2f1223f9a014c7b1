package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"gopherai-tutor/internal/model"
)

const defaultSnapshotTTL = 30 * time.Minute

// SnapshotCache keeps serialized sessions in Redis so a session survives a
// process restart or lands on another instance.
type SnapshotCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewSnapshotCache(client *redisv9.Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *SnapshotCache) Get(ctx context.Context, sessionID string) (model.SessionSnapshot, bool, error) {
	raw, err := c.client.Get(ctx, snapshotKey(sessionID)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return model.SessionSnapshot{}, false, nil
	}
	if err != nil {
		return model.SessionSnapshot{}, false, fmt.Errorf("redis get snapshot failed: %w", err)
	}

	var snap model.SessionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return model.SessionSnapshot{}, false, fmt.Errorf("unmarshal cached snapshot failed: %w", err)
	}
	return snap, true, nil
}

// Set stores the snapshot and restarts its TTL.
func (c *SnapshotCache) Set(ctx context.Context, snap model.SessionSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot failed: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snap.ID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot failed: %w", err)
	}
	return nil
}

func (c *SnapshotCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, snapshotKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete snapshot failed: %w", err)
	}
	return nil
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("tutor:session:%s", sessionID)
}

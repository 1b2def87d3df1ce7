package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppSessionStore keeps login sessions in Redis, plus a per-member set of
// session ids so deleting a member can revoke everything they hold.
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

type AppSession struct {
	MemberID  string `json:"mid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string           { return fmt.Sprintf("lib:sess:%s", id) }
func memberSetKey(mid string) string { return fmt.Sprintf("lib:member_sessions:%s", mid) }

func (s *AppSessionStore) Create(ctx context.Context, id, memberID string) error {
	now := time.Now()
	b, _ := json.Marshal(AppSession{
		MemberID:  memberID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, memberSetKey(memberID), id)
	pipe.Expire(ctx, memberSetKey(memberID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, memberSetKey(as.MemberID), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// RevokeAllForMember drops every session a member holds; called when an admin
// deletes the account.
func (s *AppSessionStore) RevokeAllForMember(ctx context.Context, memberID string) error {
	ids, err := s.rdb.SMembers(ctx, memberSetKey(memberID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, memberSetKey(memberID))
	_, err = pipe.Exec(ctx)
	return err
}

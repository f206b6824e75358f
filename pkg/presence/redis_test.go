package presence

import (
	"context"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

// hashTag returns the part of key Redis Cluster hashes for slot placement.
func hashTag(key string) string {
	start := strings.IndexByte(key, '{')
	if start < 0 {
		return key
	}
	end := strings.IndexByte(key[start+1:], '}')
	if end <= 0 {
		return key
	}
	return key[start+1 : start+1+end]
}

func TestRedisStoreKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	s := NewRedisStore(client, "", 0)
	hk, zk := s.keys("c1")
	if hk != "artboard:presence:{c1}" || zk != "artboard:presence:{c1}:ts" {
		t.Errorf("keys = %q, %q", hk, zk)
	}
	if a, b := hashTag(hk), hashTag(zk); a != "c1" || a != b {
		t.Errorf("hash tags = %q, %q, want both c1", a, b)
	}
	if s.ttl != DefaultRedisTTL {
		t.Errorf("ttl = %v", s.ttl)
	}

	// Invalid identities are rejected before any network call.
	_, err := s.Upsert(context.Background(), Record{CanvasID: "c1", UserID: "a/b"})
	if !apperr.Is(err, apperr.ErrCodeInvalidID) {
		t.Errorf("Upsert() error = %v, want INVALID_ID", err)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/lemaitregabinpro-creator/SaaS-DiapoNoteBookLM/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ResultCache = (*RedisService)(nil)

func TestRedisService_Unreachable(t *testing.T) {
	svc := NewRedisService(&config.RedisConfig{Addr: "127.0.0.1:1", TTL: time.Minute})
	t.Cleanup(func() { _ = svc.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.Error(t, svc.Ping(ctx))

	_, ok, err := svc.GetCleanedImage(ctx, "abc")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, svc.SetCleanedImage(ctx, "abc", "data:image/jpeg;base64,AAAA"))
}

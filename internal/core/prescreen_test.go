package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCache struct {
	entries map[string]bool
}

func (f *fakeCache) Get(_ context.Context, key string) (bool, bool) {
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeCache) Set(_ context.Context, key string, scamRelated bool, _ time.Duration) {
	if f.entries == nil {
		f.entries = map[string]bool{}
	}
	f.entries[key] = scamRelated
}

func TestLooksScamRelatedPrefixRule(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"yes", true},
		{"Yes, this looks like a scam setup.", true},
		{"  YES  ", true},
		{"no", false},
		{"Not really a scam topic.", false},
		{"maybe yes", false},
	}
	for _, tt := range tests {
		llm := &fakeLLM{reply: tt.reply}
		svc := NewPrescreenService(llm, nil, time.Hour, zap.NewNop())
		assert.Equal(t, tt.want, svc.LooksScamRelated(context.Background(), "some text"), "reply %q", tt.reply)
	}
}

func TestLooksScamRelatedFailsOpen(t *testing.T) {
	llm := &fakeLLM{err: errors.New("timeout")}
	svc := NewPrescreenService(llm, nil, time.Hour, zap.NewNop())

	assert.True(t, svc.LooksScamRelated(context.Background(), "anything"))
}

func TestLooksScamRelatedUsesCache(t *testing.T) {
	llm := &fakeLLM{reply: "yes"}
	cache := &fakeCache{}
	svc := NewPrescreenService(llm, cache, time.Hour, zap.NewNop())

	assert.True(t, svc.LooksScamRelated(context.Background(), "text"))
	assert.True(t, svc.LooksScamRelated(context.Background(), "text"))
	assert.Equal(t, 1, llm.converseCalls, "second check should hit the cache")
}

package utils

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueIDGenerator_Generate(t *testing.T) {
	g := NewQueueIDGenerator()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	id := g.Generate("doc-1", at)

	prefix := fmt.Sprintf("doc-1-%d-", at.UnixMilli())
	assert.True(t, strings.HasPrefix(id, prefix), "id %q should start with %q", id, prefix)
	assert.Len(t, id, len(prefix)+8)
}

func TestQueueIDGenerator_Unique(t *testing.T) {
	g := NewQueueIDGenerator()
	at := time.Now()

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := g.Generate("doc-1", at)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %q", id)
		seen[id] = struct{}{}
	}
}

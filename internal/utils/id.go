package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// QueueIDGenerator mints sync-queue item IDs of the form
// documentID-unixMilli-randomSuffix. The ID is unique without any
// coordination and sorts roughly by enqueue time within one document.
type QueueIDGenerator struct {
}

func NewQueueIDGenerator() *QueueIDGenerator {
	return &QueueIDGenerator{}
}

func (g *QueueIDGenerator) Generate(documentID string, at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", documentID, at.UnixMilli(), suffix)
}

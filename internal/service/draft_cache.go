package service

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-draft-sync/models"
)

// draftCache is the engine's read cache over the draft store. It only
// ever holds copies the engine itself wrote or loaded, so an invalidate
// followed by a store read is always enough to resynchronise.
type draftCache struct {
	mu     sync.RWMutex
	drafts map[string]models.Draft
}

func newDraftCache() *draftCache {
	return &draftCache{drafts: make(map[string]models.Draft)}
}

func (c *draftCache) Get(documentID string) (models.Draft, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drafts[documentID]
	return d, ok
}

func (c *draftCache) Put(draft models.Draft) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[draft.DocumentID] = draft
}

// SetStatus updates only the status fields of an already cached draft.
// Content written by a concurrent save stays untouched; an unknown id
// is a no-op.
func (c *draftCache) SetStatus(documentID string, status models.SyncStatus, serverVersion *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.drafts[documentID]
	if !ok {
		return
	}
	d.SyncStatus = status
	if serverVersion != nil {
		v := *serverVersion
		d.ServerVersion = &v
	}
	c.drafts[documentID] = d
}

// Delete drops one cached draft. An unknown id is a no-op.
func (c *draftCache) Delete(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, documentID)
}

// Clear drops every cached draft.
func (c *draftCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts = make(map[string]models.Draft)
}

func (c *draftCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.drafts)
}

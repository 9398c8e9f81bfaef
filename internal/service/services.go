package service

import (
	"github.com/MKhiriev/go-draft-sync/internal/adapter"
	"github.com/MKhiriev/go-draft-sync/internal/logger"
	"github.com/MKhiriev/go-draft-sync/internal/netmon"
	"github.com/MKhiriev/go-draft-sync/internal/store"
)

type ClientServices struct {
	Engine SyncEngine
	Job    SyncJob
}

func NewClientServices(storages *store.ClientStorages, documents adapter.DocumentService, monitor netmon.Monitor, log *logger.Logger) *ClientServices {
	engine := NewSyncEngine(storages, documents, monitor, log)

	return &ClientServices{
		Engine: engine,
		Job:    NewSyncJob(engine, monitor, log),
	}
}

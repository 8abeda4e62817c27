package handler

import (
	"livedocs/internal/app/doc"
	"livedocs/internal/app/storage"
	"livedocs/internal/app/store"
	"livedocs/internal/configs"
)

// AppDeps carries the shared dependencies handed to every handler.
type AppDeps struct {
	Manager *doc.Manager
	Config  *configs.AppConfig
	Gateway store.Gateway

	// StorageService is nil when object storage is not configured; the
	// attachment routes answer with a storage error in that case.
	StorageService storage.StorageService
}

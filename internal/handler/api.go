package handler

import (
	"github.com/postboard/internal/identity"
	"github.com/postboard/internal/service"
	"github.com/postboard/internal/upload"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	store    *service.ContentStore
	gate     *service.Gate
	sessions identity.SessionStore
	uploads  *upload.Saver
}

// NewAPI constructs a handler set around one content store.
func NewAPI(gdb *gorm.DB, sessions identity.SessionStore, uploads *upload.Saver) *API {
	store := service.NewContentStore(gdb)

	return &API{
		db:       gdb,
		store:    store,
		gate:     service.NewGate(identity.NewResolver(sessions), store),
		sessions: sessions,
		uploads:  uploads,
	}
}

// Uploads exposes the image saver so the router can serve its directory.
func (a *API) Uploads() *upload.Saver {
	return a.uploads
}

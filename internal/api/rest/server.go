// Package rest provides functionality for initializing a server.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/danilovkiri/dk-go-finances/internal/api/rest/handlers"
	"github.com/danilovkiri/dk-go-finances/internal/api/rest/middleware"
	"github.com/danilovkiri/dk-go-finances/internal/config"
	hasher "github.com/danilovkiri/dk-go-finances/internal/service/hasher/v1/hasher"
	"github.com/danilovkiri/dk-go-finances/internal/service/processor/v1/processor"
	"github.com/danilovkiri/dk-go-finances/internal/service/secretary/v1/secretary"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/inpsql"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

// InitServer returns a http.Server object ready to be listening and serving.
func InitServer(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (server *http.Server, err error) {
	// initialize secretary
	secretaryService, err := secretary.NewSecretaryService(cfg.SecretConfig)
	if err != nil {
		return nil, err
	}

	// initialize hasher
	hasherService := hasher.NewHasherService()

	// initialize storage
	storage, err := inpsql.InitStorage(ctx, cfg.StorageConfig, log)
	if err != nil {
		return nil, err
	}

	// initialize main service
	mainService, err := processor.InitService(storage, hasherService)
	if err != nil {
		return nil, err
	}

	// initialize token handler
	tokenHandler, err := middleware.NewTokenHandler(secretaryService, mainService, cfg.SecretConfig, log)
	if err != nil {
		return nil, err
	}

	// initialize handlers
	urlHandler, err := handlers.InitHandlers(mainService, secretaryService, log)
	if err != nil {
		return nil, err
	}

	// initialize server and set routing
	r := chi.NewRouter()
	r.Use(middleware.RequestIDHandle(log))
	loginGroup := r.Group(nil)
	mainGroup := r.Group(nil)
	mainGroup.Use(tokenHandler.TokenHandle) // token authentication is not used for register/login routes
	loginGroup.Post("/api/user/register", urlHandler.HandleRegister())
	loginGroup.Post("/api/user/login", urlHandler.HandleLogin())
	mainGroup.Patch("/api/user/password", urlHandler.HandleUpdatePassword())
	mainGroup.Post("/api/user/entries", urlHandler.HandleNewEntry())
	mainGroup.Get("/api/user/entries", urlHandler.HandleGetUserEntries())
	mainGroup.Get("/api/entries", urlHandler.HandleGetAllEntries())
	mainGroup.Post("/api/entries/{entryID}/attachments", urlHandler.HandleNewAttachment())
	mainGroup.Get("/api/entries/{entryID}/attachments", urlHandler.HandleGetEntryAttachments())
	mainGroup.Get("/api/user/attachments", urlHandler.HandleGetUserAttachments())

	srv := &http.Server{
		Addr:         cfg.ServerConfig.ServerAddress,
		Handler:      r,
		IdleTimeout:  60 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return srv, nil
}

// Package handlers provides API endpoint handling functionality.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	handlersErrors "github.com/danilovkiri/dk-go-finances/internal/api/rest/errors"
	"github.com/danilovkiri/dk-go-finances/internal/api/rest/middleware"
	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
	processor "github.com/danilovkiri/dk-go-finances/internal/service/processor/v1"
	secretary "github.com/danilovkiri/dk-go-finances/internal/service/secretary/v1"
	storageErrors "github.com/danilovkiri/dk-go-finances/internal/storage/v1/errors"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

// Handler defines attributes of a struct available to its methods.
type Handler struct {
	service processor.Processor
	sec     secretary.Secretary
	log     *zerolog.Logger
}

// InitHandlers initializes a handler object.
func InitHandlers(mainService processor.Processor, sec secretary.Secretary, log *zerolog.Logger) (*Handler, error) {
	if mainService == nil {
		return nil, &handlersErrors.HandlersFoundNilArgument{Msg: "nil processor was passed to handlers initializer"}
	}
	if sec == nil {
		return nil, &handlersErrors.HandlersFoundNilArgument{Msg: "nil secretary was passed to handlers initializer"}
	}
	return &Handler{service: mainService, sec: sec, log: log}, nil
}

// HandleRegister processes user register requests.
func (h *Handler) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		credentials, ok := h.readCredentials(w, r)
		if !ok {
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new user register request detected for %s", credentials.Login))
		res := h.service.CreateUser(ctx, credentials)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleRegister failed")
			switch res.Kind() {
			case modelresult.BadCredentials:
				http.Error(w, res.Failure().Error(), http.StatusBadRequest)
			case modelresult.NotCreated:
				if isTimeout(res.Failure()) {
					http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
					return
				}
				w.WriteHeader(http.StatusConflict)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		accessToken, err := h.sec.GetTokenForUser(res.Data())
		if err != nil {
			h.log.Error().Err(err).Msg("HandleRegister failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Authorization", "Bearer "+accessToken)
		h.writeJSON(w, http.StatusCreated, modeldto.CreatedID{ID: res.Data()})
	}
}

// HandleLogin processes user login requests.
func (h *Handler) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		credentials, ok := h.readCredentials(w, r)
		if !ok {
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new login request detected for %s", credentials.Login))
		res := h.service.CheckCredentials(ctx, credentials)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleLogin failed")
			switch res.Kind() {
			case modelresult.BadCredentials:
				http.Error(w, res.Failure().Error(), http.StatusBadRequest)
			case modelresult.NotFound, modelresult.WrongCredentials:
				if isTimeout(res.Failure()) {
					http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		accessToken, err := h.sec.GetTokenForUser(res.Data())
		if err != nil {
			h.log.Error().Err(err).Msg("HandleLogin failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Authorization", "Bearer "+accessToken)
		w.WriteHeader(http.StatusOK)
	}
}

// HandleUpdatePassword processes password rotation requests for the authenticated user.
func (h *Handler) HandleUpdatePassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "no authenticated user", http.StatusUnauthorized)
			return
		}
		b, ok := h.readJSONBody(w, r)
		if !ok {
			return
		}
		var nextPassword modeldto.NewPassword
		if err := json.Unmarshal(b, &nextPassword); err != nil {
			h.log.Error().Err(err).Msg("HandleUpdatePassword failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := nextPassword.Validate(); err != nil {
			h.log.Error().Err(err).Msg("HandleUpdatePassword failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res := h.service.UpdatePasswordByID(ctx, userID, nextPassword)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleUpdatePassword failed")
			switch {
			case isTimeout(res.Failure()):
				http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
			case res.Kind() == modelresult.PasswordNotUpdated || res.Kind() == modelresult.BadCredentials:
				http.Error(w, res.Failure().Error(), http.StatusBadRequest)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// HandleNewEntry processes new entry requests. The entry owner comes from the
// authenticated context, never from the payload.
func (h *Handler) HandleNewEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "no authenticated user", http.StatusUnauthorized)
			return
		}
		b, ok := h.readJSONBody(w, r)
		if !ok {
			return
		}
		var entry modeldto.Entry
		if err := json.Unmarshal(b, &entry); err != nil {
			h.log.Error().Err(err).Msg("HandleNewEntry failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new entry request detected for user ID %d", userID))
		res := h.service.CreateEntry(ctx, entry, userID)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleNewEntry failed")
			switch {
			case isTimeout(res.Failure()):
				http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
			case res.Kind() == modelresult.NotFound:
				http.Error(w, res.Failure().Error(), http.StatusNotFound)
			case res.Kind() == modelresult.NotCreated:
				w.WriteHeader(http.StatusConflict)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		h.writeJSON(w, http.StatusCreated, modeldto.CreatedID{ID: res.Data()})
	}
}

// HandleGetAllEntries processes queries over all stored entries.
func (h *Handler) HandleGetAllEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		res := h.service.GetAllEntries(ctx)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleGetAllEntries failed")
			if isTimeout(res.Failure()) {
				http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
				return
			}
			http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			return
		}
		h.writeJSON(w, http.StatusOK, res.Data())
	}
}

// HandleGetUserEntries processes entry queries for the authenticated user. An
// empty sequence responds 200 with an empty array, unlike attachment queries.
func (h *Handler) HandleGetUserEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "no authenticated user", http.StatusUnauthorized)
			return
		}
		res := h.service.GetEntriesByUserID(ctx, userID)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleGetUserEntries failed")
			switch {
			case isTimeout(res.Failure()):
				http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
			case res.Kind() == modelresult.NotFound:
				http.Error(w, res.Failure().Error(), http.StatusNotFound)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		h.writeJSON(w, http.StatusOK, res.Data())
	}
}

// HandleNewAttachment processes new attachment requests for one entry.
func (h *Handler) HandleNewAttachment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
		if err != nil {
			http.Error(w, "illegal entry identifier", http.StatusBadRequest)
			return
		}
		b, ok := h.readJSONBody(w, r)
		if !ok {
			return
		}
		var attachment modeldto.Attachment
		if err := json.Unmarshal(b, &attachment); err != nil {
			h.log.Error().Err(err).Msg("HandleNewAttachment failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := attachment.Validate(); err != nil {
			h.log.Error().Err(err).Msg("HandleNewAttachment failed")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Info().Msg(fmt.Sprintf("new attachment request detected for entry ID %d", entryID))
		res := h.service.CreateAttachment(ctx, attachment, entryID)
		if res.Failed() {
			h.log.Error().Err(res.Failure()).Msg("HandleNewAttachment failed")
			switch {
			case isTimeout(res.Failure()):
				http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
			case res.Kind() == modelresult.NotFound:
				http.Error(w, res.Failure().Error(), http.StatusNotFound)
			case res.Kind() == modelresult.NotCreated:
				w.WriteHeader(http.StatusConflict)
			default:
				http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
			}
			return
		}
		h.writeJSON(w, http.StatusCreated, modeldto.CreatedID{ID: res.Data()})
	}
}

// HandleGetEntryAttachments processes attachment queries for one entry. Zero
// matches respond 204, distinct from a successful non-empty 200.
func (h *Handler) HandleGetEntryAttachments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
		if err != nil {
			http.Error(w, "illegal entry identifier", http.StatusBadRequest)
			return
		}
		res := h.service.GetAttachmentsByEntryID(ctx, entryID)
		h.respondAttachments(w, res, "HandleGetEntryAttachments")
	}
}

// HandleGetUserAttachments processes attachment queries for the authenticated user.
func (h *Handler) HandleGetUserAttachments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "no authenticated user", http.StatusUnauthorized)
			return
		}
		res := h.service.GetAttachmentsByUserID(ctx, userID)
		h.respondAttachments(w, res, "HandleGetUserAttachments")
	}
}

func (h *Handler) respondAttachments(w http.ResponseWriter, res modelresult.Result[[]modeldto.Attachment], method string) {
	if res.Failed() {
		switch {
		case res.Kind() == modelresult.EmptySearch:
			w.WriteHeader(http.StatusNoContent)
		case isTimeout(res.Failure()):
			h.log.Error().Err(res.Failure()).Msg(method + " failed")
			http.Error(w, res.Failure().Error(), http.StatusGatewayTimeout)
		case res.Kind() == modelresult.NotFound:
			h.log.Error().Err(res.Failure()).Msg(method + " failed")
			http.Error(w, res.Failure().Error(), http.StatusNotFound)
		default:
			h.log.Error().Err(res.Failure()).Msg(method + " failed")
			http.Error(w, res.Failure().Error(), http.StatusInternalServerError)
		}
		return
	}
	h.writeJSON(w, http.StatusOK, res.Data())
}

// readCredentials decodes and shape-validates a credentials payload, a
// validation failure responds 400 before any service call is reachable.
func (h *Handler) readCredentials(w http.ResponseWriter, r *http.Request) (modeldto.Credentials, bool) {
	b, ok := h.readJSONBody(w, r)
	if !ok {
		return modeldto.Credentials{}, false
	}
	var credentials modeldto.Credentials
	if err := json.Unmarshal(b, &credentials); err != nil {
		h.log.Error().Err(err).Msg("reading credentials failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return modeldto.Credentials{}, false
	}
	if err := credentials.Validate(); err != nil {
		h.log.Error().Err(err).Msg("reading credentials failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return modeldto.Credentials{}, false
	}
	return credentials, true
}

func (h *Handler) readJSONBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "Invalid Content-Type", http.StatusBadRequest)
		return nil, false
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		h.log.Error().Err(err).Msg("reading request body failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return b, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	resBody, err := json.Marshal(payload)
	if err != nil {
		h.log.Error().Err(err).Msg("response marshalling failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(resBody)
	if err != nil {
		h.log.Error().Err(err).Msg("response writing failed")
	}
}

func isTimeout(failure *modelresult.Failure) bool {
	var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
	return errors.As(failure, &contextTimeoutExceededError)
}

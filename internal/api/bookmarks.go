package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/joestump/joe-bookmarks/internal/bookmark"
	"github.com/joestump/joe-bookmarks/internal/metrics"
	"github.com/joestump/joe-bookmarks/internal/store"
)

// maxBodyBytes caps request bodies for create and update.
const maxBodyBytes = 1 << 20

type ctxKey int

const bookmarkKey ctxKey = iota

// bookmarksAPIHandler provides REST handlers for bookmark management.
type bookmarksAPIHandler struct {
	bookmarks store.BookmarkStoreIface
	log       *zap.Logger
}

// registerBookmarkRoutes registers the bookmark routes on r. Routes with an
// {id} resolve the bookmark first, so an unknown id is a 404 for every verb.
func registerBookmarkRoutes(r chi.Router, bookmarks store.BookmarkStoreIface, log *zap.Logger) {
	h := &bookmarksAPIHandler{bookmarks: bookmarks, log: log}
	r.With(instrument("list")).Get("/bookmarks", h.List)
	r.With(instrument("create")).Post("/bookmarks", h.Create)
	r.With(instrument("get"), h.bookmarkCtx).Get("/bookmarks/{id}", h.Get)
	r.With(instrument("delete"), h.bookmarkCtx).Delete("/bookmarks/{id}", h.Delete)
	r.With(instrument("update"), h.bookmarkCtx).Patch("/bookmarks/{id}", h.Update)
}

// storeCtx detaches store calls from client cancellation: once started, a
// store call runs to completion even if the client goes away.
func storeCtx(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// bookmarkCtx loads the bookmark named by {id} into the request context, or
// responds 404 when it does not exist. Ids that are not integers cannot
// exist.
func (h *bookmarksAPIHandler) bookmarkCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idParam := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			h.bookmarkNotFound(w, idParam)
			return
		}

		b, err := h.bookmarks.GetByID(storeCtx(r), id)
		if errors.Is(err, store.ErrNotFound) {
			h.bookmarkNotFound(w, idParam)
			return
		}
		if err != nil {
			serverError(h.log, w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), bookmarkKey, b)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *bookmarksAPIHandler) bookmarkNotFound(w http.ResponseWriter, id string) {
	h.log.Warn("bookmark not found", zap.String("id", id))
	writeError(w, http.StatusNotFound, "Bookmark Not Found")
}

// bookmarkFromContext returns the bookmark stored by bookmarkCtx.
func bookmarkFromContext(ctx context.Context) *store.Bookmark {
	b, _ := ctx.Value(bookmarkKey).(*store.Bookmark)
	return b
}

// List returns every bookmark.
// GET /bookmarks
//
// @Summary      List bookmarks
// @Description  Returns all bookmarks with title and description sanitized.
// @Tags         Bookmarks
// @Produce      json
// @Success      200  {array}   BookmarkResponse
// @Failure      401  {object}  UnauthorizedResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [get]
func (h *bookmarksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.bookmarks.ListAll(storeCtx(r))
	if err != nil {
		serverError(h.log, w, r, err)
		return
	}

	resp := make([]BookmarkResponse, 0, len(bookmarks))
	for _, b := range bookmarks {
		resp = append(resp, toBookmarkResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create validates and stores a new bookmark.
// POST /bookmarks
//
// @Summary      Create a bookmark
// @Description  Creates a bookmark. title, url and rating are required; rating is an integer from 0 to 5.
// @Tags         Bookmarks
// @Accept       json
// @Produce      json
// @Param        body  body      BookmarkRequest  true  "Bookmark to create"
// @Success      201   {object}  BookmarkResponse
// @Header       201   {string}  Location  "Path of the new bookmark"
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  UnauthorizedResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks [post]
func (h *bookmarksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	fields, err := bookmark.Validate(p)
	if err != nil {
		h.rejectPayload(w, err)
		return
	}

	b, err := h.bookmarks.Insert(storeCtx(r), fields)
	if err != nil {
		serverError(h.log, w, r, err)
		return
	}

	h.log.Info("bookmark created", zap.Int64("id", b.ID))
	w.Header().Set("Location", path.Join(r.URL.Path, strconv.FormatInt(b.ID, 10)))
	writeJSON(w, http.StatusCreated, toBookmarkResponse(b))
}

// Get returns a single bookmark by id.
// GET /bookmarks/{id}
//
// @Summary      Get a bookmark
// @Tags         Bookmarks
// @Produce      json
// @Param        id   path      int  true  "Bookmark ID"
// @Success      200  {object}  BookmarkResponse
// @Failure      401  {object}  UnauthorizedResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [get]
func (h *bookmarksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toBookmarkResponse(bookmarkFromContext(r.Context())))
}

// Delete removes a bookmark.
// DELETE /bookmarks/{id}
//
// @Summary      Delete a bookmark
// @Tags         Bookmarks
// @Param        id   path  int  true  "Bookmark ID"
// @Success      204
// @Failure      401  {object}  UnauthorizedResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [delete]
func (h *bookmarksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	b := bookmarkFromContext(r.Context())

	// A concurrent delete between bookmarkCtx and here leaves n == 0; the
	// bookmark is gone either way, so that is still a 204.
	if _, err := h.bookmarks.DeleteByID(storeCtx(r), b.ID); err != nil {
		serverError(h.log, w, r, err)
		return
	}

	h.log.Info("bookmark deleted", zap.Int64("id", b.ID))
	w.WriteHeader(http.StatusNoContent)
}

// Update overwrites the supplied fields of a bookmark.
// PATCH /bookmarks/{id}
//
// @Summary      Update a bookmark
// @Description  Updates any non-empty subset of title, url, rating and description.
// @Tags         Bookmarks
// @Accept       json
// @Param        id    path  int              true  "Bookmark ID"
// @Param        body  body  BookmarkRequest  true  "Fields to update"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  UnauthorizedResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     BearerToken
// @Router       /bookmarks/{id} [patch]
func (h *bookmarksAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	b := bookmarkFromContext(r.Context())

	p, ok := h.decodePayload(w, r)
	if !ok {
		return
	}

	patch, err := bookmark.ValidateUpdate(p)
	if err != nil {
		h.rejectPayload(w, err)
		return
	}

	if _, err := h.bookmarks.Update(storeCtx(r), b.ID, patch); err != nil {
		serverError(h.log, w, r, err)
		return
	}

	h.log.Info("bookmark updated", zap.Int64("id", b.ID))
	w.WriteHeader(http.StatusNoContent)
}

// decodePayload reads the JSON body. An empty body is an empty payload.
// On failure it writes a 400 and returns false.
func (h *bookmarksAPIHandler) decodePayload(w http.ResponseWriter, r *http.Request) (bookmark.Payload, bool) {
	var p bookmark.Payload
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&p)
	if err == nil || errors.Is(err, io.EOF) {
		return p, true
	}
	h.log.Warn("invalid request body", zap.Error(err))
	metrics.ValidationFailuresTotal.WithLabelValues("invalid_body").Inc()
	writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
	return bookmark.Payload{}, false
}

// rejectPayload answers a validation failure with a 400.
func (h *bookmarksAPIHandler) rejectPayload(w http.ResponseWriter, err error) {
	var verr *bookmark.ValidationError
	if !errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Warn("bookmark rejected",
		zap.Stringer("kind", verr.Kind),
		zap.String("field", verr.Field),
	)
	metrics.ValidationFailuresTotal.WithLabelValues(verr.Kind.String()).Inc()
	writeError(w, http.StatusBadRequest, verr.Error())
}

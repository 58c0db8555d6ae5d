package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/pocket-ledger/internal/dto"
	"github.com/GregMSThompson/pocket-ledger/internal/models"
	"github.com/GregMSThompson/pocket-ledger/internal/response"
)

type tagService interface {
	All(ctx context.Context) (models.Tags, error)
	List(ctx context.Context, kind models.TagKind) ([]models.Tag, error)
	Add(ctx context.Context, kind models.TagKind, tag models.Tag) (models.Tag, error)
	Update(ctx context.Context, kind models.TagKind, name string, req dto.UpdateTagRequest) (dto.RenameTagResult, error)
	Delete(ctx context.Context, kind models.TagKind, name string) error
	Resolve(ctx context.Context, kind models.TagKind, name string) (dto.TagResolution, error)
}

type tagHandlers struct {
	ResponseHandler response.ResponseHandler
	TagSvc          tagService
}

func NewTagHandlers(deps *Deps) *tagHandlers {
	return &tagHandlers{
		ResponseHandler: deps.ResponseHandler,
		TagSvc:          deps.TagSvc,
	}
}

func (h *tagHandlers) TagRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.AllTags)
	r.Get("/{kind}", h.ListTags)
	r.Post("/{kind}", h.AddTag)
	r.Put("/{kind}/{name}", h.UpdateTag)
	r.Delete("/{kind}/{name}", h.DeleteTag)
	r.Get("/{kind}/{name}/resolve", h.ResolveTag)
	return r
}

func tagKind(r *http.Request) models.TagKind {
	return models.TagKind(chi.URLParam(r, "kind"))
}

func (h *tagHandlers) AllTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TagSvc.All(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tags)
}

func (h *tagHandlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TagSvc.List(r.Context(), tagKind(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tags)
}

func (h *tagHandlers) AddTag(w http.ResponseWriter, r *http.Request) {
	var req models.Tag
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tag, err := h.TagSvc.Add(r.Context(), tagKind(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tag)
}

func (h *tagHandlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTagRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.TagSvc.Update(r.Context(), tagKind(r), chi.URLParam(r, "name"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *tagHandlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.TagSvc.Delete(r.Context(), tagKind(r), chi.URLParam(r, "name")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *tagHandlers) ResolveTag(w http.ResponseWriter, r *http.Request) {
	res, err := h.TagSvc.Resolve(r.Context(), tagKind(r), chi.URLParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

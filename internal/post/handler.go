package post

import (
	"net/http"
	"strconv"

	"social-api/internal/apperr"
	"social-api/internal/shared/httpx"
	"social-api/internal/shared/validate"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	in, err := httpx.Decode[CreateRequest](r)
	if err != nil {
		return err
	}
	if err := validate.Struct(in); err != nil {
		return err
	}
	p, err := h.svc.Create(r.Context(), uid, in.Text)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, p, http.StatusOK)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	posts, err := h.svc.ListByOwner(r.Context(), uid)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []Post{}
	}
	httpx.WriteJSON(w, posts, http.StatusOK)
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	id, err := strconv.ParseUint(r.PathValue("post_id"), 10, 64)
	if err != nil {
		return apperr.Wrap(apperr.ErrNotFound, "post not found")
	}
	if err := h.svc.Delete(r.Context(), uid, uint(id)); err != nil {
		return err
	}
	httpx.WriteJSON(w, DeleteResponse{Message: "post deleted", PostID: uint(id)}, http.StatusOK)
	return nil
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) error {
	uid, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(r.Context(), uid)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, stats, http.StatusOK)
	return nil
}

package auth

import (
	"net/http"

	"social-api/internal/shared/httpx"
	"social-api/internal/shared/validate"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[SignupRequest](r)
	if err != nil {
		return err
	}
	if err = validate.Struct(body); err != nil {
		return err
	}
	token, err := h.svc.Signup(body.Email, body.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, TokenResponse{AccessToken: token, TokenType: "bearer"}, http.StatusOK)
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[LoginRequest](r)
	if err != nil {
		return err
	}
	if err = validate.Struct(body); err != nil {
		return err
	}
	token, err := h.svc.Login(body.Email, body.Password)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, TokenResponse{AccessToken: token, TokenType: "bearer"}, http.StatusOK)
	return nil
}

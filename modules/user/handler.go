package user

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dmitrymomot/userhub/pkg/binder"
	"github.com/dmitrymomot/userhub/pkg/logger"
)

// Handler exposes the user service over HTTP. Response payloads and status
// codes follow the public API contract: generic fixed messages per failure
// category, never internal error detail, and exactly one response per
// request.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler creates the HTTP handler for the user service.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type registerRequest struct {
	FirstName string                `form:"firstName" json:"firstName"`
	LastName  string                `form:"lastName" json:"lastName"`
	Email     string                `form:"email" json:"email"`
	Password  string                `form:"password" json:"password"`
	Phone     string                `form:"phone" json:"phone"`
	Avatar    *multipart.FileHeader `form:"-" file:"file" json:"-"`
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type updateRequest struct {
	ID        string `form:"_id" json:"_id"`
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Password  string `form:"password" json:"password"`
	Phone     string `form:"phone" json:"phone"`
}

// bind populates v from the request body, choosing the binder by content
// type: JSON bodies bind via the JSON binder, everything else is treated as
// form data with optional file parts.
func bind(r *http.Request, v any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return binder.JSON()(r, v)
	}
	if err := binder.Form()(r, v); err != nil {
		return err
	}
	return binder.File()(r, v)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := bind(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "not ok",
			"message": "Invalid request",
		})
		return
	}

	u, err := h.svc.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists):
			writeJSON(w, http.StatusForbidden, map[string]string{
				"status":  "not ok",
				"message": "Account already exists",
			})
		default:
			h.log.ErrorContext(r.Context(), "registration failed", logger.Error(err), logger.Component("user"))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "not ok",
				"message": "MongoDB error",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"document": u,
		"message":  "User created",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bind(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "not ok",
			"message": "Invalid request",
		})
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			// Identical body for unknown email and wrong password.
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"message": "Wrong email or password",
			})
		case errors.Is(err, ErrTokenSigning):
			writeJSON(w, http.StatusNotImplemented, map[string]string{
				"message": "Something went wrong",
			})
		default:
			h.log.ErrorContext(r.Context(), "login failed", logger.Error(err), logger.Component("user"))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "not ok",
				"message": "Please try again later",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": result})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListAll(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing users failed", logger.Error(err), logger.Component("user"))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not ok",
			"message": "Please try again later",
		})
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := bind(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "not ok",
			"message": "Invalid request",
		})
		return
	}

	u, err := h.svc.Update(r.Context(), UpdateInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidID):
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"status":  "not ok",
				"message": "Invalid request",
			})
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"status":  "not ok",
				"message": "User not found",
			})
		case errors.Is(err, ErrAlreadyExists):
			writeJSON(w, http.StatusForbidden, map[string]string{
				"status":  "not ok",
				"message": "Account already exists",
			})
		default:
			h.log.ErrorContext(r.Context(), "update failed", logger.Error(err), logger.Component("user"))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "not ok",
				"message": "Please try again later",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

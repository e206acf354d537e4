// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	"github.com/taibuivan/bayan/internal/platform/ctxutil"
	"github.com/taibuivan/bayan/internal/platform/middleware"
	requestutil "github.com/taibuivan/bayan/internal/platform/request"
	"github.com/taibuivan/bayan/internal/platform/respond"
	"github.com/taibuivan/bayan/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the account HTTP endpoints.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// RegisterRoutes mounts the account endpoints.
//
// # Endpoints
//   - POST /sign-up  : Creates an account.
//   - POST /sign-in  : Returns a provider session.
//   - POST /sign-out : Revokes the caller's session.
//   - GET  /session  : Describes the caller's session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/sign-up", handler.signUp)
	router.Post("/sign-in", handler.signIn)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/sign-out", handler.signOut)
		r.Get("/session", handler.session)
	})
}

// # Request Payloads

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the caller's current session.
type SessionResponse struct {
	User        *User     `json:"user"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	ExpiresAt   time.Time `json:"expires_at"`
}

/*
SignUp handles account creation.

POST /api/v1/auth/sign-up

Response:
  - 201: Session (access_token empty while confirmation is pending)
  - 400: Validation failure
  - 422: Provider rejected the account (e.g. already registered)
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, session)
}

/*
SignIn handles password sign-in.

POST /api/v1/auth/sign-in

Response:
  - 200: Session
  - 400: Validation failure
  - 401: Invalid credentials
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, session)
}

func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token := ctxutil.GetAccessToken(request.Context())
	if err := handler.authService.SignOut(request.Context(), token, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if claims.ExpiresAt == nil {
		respond.Error(writer, request, apperr.Unauthorized("Token has no expiry"))
		return
	}

	token := ctxutil.GetAccessToken(request.Context())
	user, err := handler.authService.CurrentUser(request.Context(), token, claims.ExpiresAt.Time)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, SessionResponse{
		User:        user,
		DisplayName: user.DisplayName(),
		Role:        string(user.AppRole()),
		ExpiresAt:   claims.ExpiresAt.Time,
	})
}

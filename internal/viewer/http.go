// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/taibuivan/bayan/internal/platform/apperr"
	requestutil "github.com/taibuivan/bayan/internal/platform/request"
	"github.com/taibuivan/bayan/internal/platform/respond"
	"github.com/taibuivan/bayan/internal/platform/validate"
)

// Command type names accepted on the wire.
const (
	CmdGoToPage       = "go_to_page"
	CmdNextPage       = "next_page"
	CmdPreviousPage   = "previous_page"
	CmdSetZoom        = "set_zoom"
	CmdSetFitMode     = "set_fit_mode"
	CmdRotate         = "rotate"
	CmdSetDisplayMode = "set_display_mode"
	CmdNextMatch      = "next_match"
	CmdPreviousMatch  = "previous_match"
)

const maxSearchQueryLength = 200

var documentNamePattern = regexp.MustCompile(`(?i)^[^/\\]+\.pdf$`)

// # Payloads

type openRequest struct {
	Document string `json:"document"`
}

func (req *openRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Document,
			validation.Required,
			validation.Length(1, 255),
			validation.Match(documentNamePattern).Error("must be a PDF file name"),
		),
	)
}

type commandRequest struct {
	Type      string   `json:"type"`
	Page      *int     `json:"page"`
	Scale     *float64 `json:"scale"`
	Mode      string   `json:"mode"`
	Direction string   `json:"direction"`
}

func (req *commandRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Type,
			validation.Required,
			validation.In(CmdGoToPage, CmdNextPage, CmdPreviousPage, CmdSetZoom, CmdSetFitMode,
				CmdRotate, CmdSetDisplayMode, CmdNextMatch, CmdPreviousMatch),
		),
		validation.Field(&req.Page, validation.When(req.Type == CmdGoToPage, validation.NotNil)),
		validation.Field(&req.Scale, validation.When(req.Type == CmdSetZoom, validation.NotNil)),
		validation.Field(&req.Mode,
			validation.When(req.Type == CmdSetFitMode,
				validation.Required, validation.In(string(FitWidth), string(FitPage), string(ActualSize))),
			validation.When(req.Type == CmdSetDisplayMode,
				validation.Required, validation.In(string(DisplaySingle), string(DisplayContinuous), string(DisplayFacing))),
		),
		validation.Field(&req.Direction,
			validation.When(req.Type == CmdRotate, validation.Required, validation.In("clockwise", "counterclockwise")),
		),
	)
}

// command converts a validated request into a [Command].
func (req *commandRequest) command() Command {
	switch req.Type {
	case CmdGoToPage:
		return GoToPage{Page: *req.Page}
	case CmdNextPage:
		return NextPage{}
	case CmdPreviousPage:
		return PreviousPage{}
	case CmdSetZoom:
		return SetZoom{Scale: *req.Scale}
	case CmdSetFitMode:
		return SetFitMode{Mode: FitMode(req.Mode)}
	case CmdRotate:
		if req.Direction == "counterclockwise" {
			return Rotate{Direction: CounterClockwise}
		}
		return Rotate{Direction: Clockwise}
	case CmdSetDisplayMode:
		return SetDisplayMode{Mode: DisplayMode(req.Mode)}
	case CmdNextMatch:
		return NextMatch{}
	case CmdPreviousMatch:
		return PreviousMatch{}
	}
	return nil
}

type searchRequest struct {
	Query string `json:"query"`
}

func (req *searchRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Query, validation.RuneLength(0, maxSearchQueryLength)),
	)
}

type scaleQuery struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (query *scaleQuery) Validate() error {
	return validation.ValidateStruct(query,
		validation.Field(&query.Width, validation.Required, validation.Min(1.0)),
		validation.Field(&query.Height, validation.Required, validation.Min(1.0)),
	)
}

// SessionResponse is the JSON view of an open session.
type SessionResponse struct {
	ID       string    `json:"id"`
	Document string    `json:"document"`
	OpenedAt time.Time `json:"opened_at"`
	State    Snapshot  `json:"state"`
}

// ScaleResponse is the resolved zoom for a viewport.
type ScaleResponse struct {
	Zoom  Zoom    `json:"zoom"`
	Scale float64 `json:"scale"`
}

func sessionResponse(session *Session, state State) SessionResponse {
	return SessionResponse{
		ID:       session.ID,
		Document: session.Document,
		OpenedAt: session.OpenedAt,
		State:    state.Snapshot(),
	}
}

// # Handler

// Handler exposes viewer sessions over HTTP.
type Handler struct {
	registry *Registry
}

// NewHandler creates a viewer handler.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts the viewer session routes.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.openSession)
	router.Route("/{id}", func(router chi.Router) {
		router.Get("/", handler.getSession)
		router.Delete("/", handler.closeSession)
		router.Post("/commands", handler.applyCommand)
		router.Post("/search", handler.search)
		router.Get("/scale", handler.resolveScale)
	})
}

// session loads the addressed session. Sessions opened by a signed-in user
// are invisible to everyone else.
func (handler *Handler) session(request *http.Request) (*Session, error) {
	session, err := handler.registry.Get(requestutil.Param(request, "id"))
	if err != nil {
		return nil, err
	}
	if session.OwnerID != "" && session.OwnerID != requestutil.OptionalUserID(request) {
		return nil, apperr.NotFound("Viewer session")
	}
	return session, nil
}

func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request) {
	var input openRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, validate.FromOzzo(err))
		return
	}

	session := handler.registry.Open(requestutil.OptionalUserID(request), input.Document)
	respond.Accepted(writer, sessionResponse(session, session.Controller.State()))
}

func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, sessionResponse(session, session.Controller.State()))
}

func (handler *Handler) closeSession(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := handler.registry.Close(session.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) applyCommand(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commandRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, validate.FromOzzo(err))
		return
	}

	state := session.Controller.Dispatch(input.command())
	respond.OK(writer, sessionResponse(session, state))
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input searchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, validate.FromOzzo(err))
		return
	}

	session.Controller.Search(input.Query)
	respond.Accepted(writer, sessionResponse(session, session.Controller.State()))
}

func (handler *Handler) resolveScale(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.session(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	query := scaleQuery{
		Width:  requestutil.QueryFloat(request, "width", 0),
		Height: requestutil.QueryFloat(request, "height", 0),
	}
	if err := query.Validate(); err != nil {
		respond.Error(writer, request, validate.FromOzzo(err))
		return
	}

	scale, err := session.Controller.EffectiveScale(request.Context(), Size{Width: query.Width, Height: query.Height})
	if err != nil {
		respond.Error(writer, request, apperr.Unprocessable("Document is not ready"))
		return
	}

	respond.OK(writer, ScaleResponse{Zoom: session.Controller.State().Zoom, Scale: scale})
}

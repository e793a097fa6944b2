// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clanboard/api/internal/auth"
	"github.com/clanboard/api/internal/platform/apperr"
	requestutil "github.com/clanboard/api/internal/platform/request"
	"github.com/clanboard/api/internal/platform/respond"
	"github.com/clanboard/api/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the profile HTTP endpoints. All of them require a
// live web session.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Register adds the profile routes to the given router.
//
// # Endpoints
//   - GET /user/                  : Profile of the logged-in user.
//   - GET /user/{qqid}/           : Profile of another member.
//   - PUT /user/{qqid}/nickname/  : Nickname edit.
func (handler *Handler) Register(router chi.Router) {
	router.Get("/user/", handler.ownProfile)
	router.Get("/user/{qqid}/", handler.profile)
	router.Put("/user/{qqid}/nickname/", handler.updateNickname)
}

// # Request Payloads

type nicknameRequest struct {
	Nickname *string `json:"nickname"`
}

// # Handlers

func (handler *Handler) ownProfile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), identity.QQID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredIdentity(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	qqid := requestutil.ParamInt64(request, auth.FieldQQID)
	if qqid <= 0 {
		respond.Error(writer, request, apperr.ValidationError("Invalid account id"))
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), qqid)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

func (handler *Handler) updateNickname(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	qqid := requestutil.ParamInt64(request, auth.FieldQQID)
	if qqid <= 0 {
		respond.Error(writer, request, apperr.ValidationError("Invalid account id"))
		return
	}

	var payload nicknameRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if payload.Nickname == nil {
		respond.Error(writer, request, validate.RequiredError(auth.FieldNickname, "消息体内容错误"))
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldNickname, *payload.Nickname).
		MaxLen(auth.FieldNickname, *payload.Nickname, 32)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.accountService.UpdateNickname(request.Context(), identity, qqid, *payload.Nickname)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package bot

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/clanboard/api/internal/platform/request"
	"github.com/clanboard/api/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the inbound event webhook.
type Handler struct {
	botService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{botService: service}
}

// Register adds the webhook route to the given router.
//
// # Endpoints
//   - POST /bot/event : OneBot HTTP push endpoint.
func (handler *Handler) Register(router chi.Router) {
	router.Post("/bot/event", handler.event)
}

// # Quick Replies

// quickReply is the response body OneBot interprets as an immediate reply
// to the pushed event.
type quickReply struct {
	Reply string `json:"reply"`
	Block bool   `json:"block"`
}

// event handles one pushed message event. Ignored events answer with an
// empty 204 so the push pipeline treats them as consumed without a reply.
func (handler *Handler) event(writer http.ResponseWriter, request *http.Request) {
	var event Event
	if err := requestutil.DecodeJSON(request, &event); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.botService.HandleEvent(request.Context(), &event)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if reply.Message == "" {
		respond.NoContent(writer)
		return
	}

	respond.JSON(writer, http.StatusOK, quickReply{Reply: reply.Message, Block: reply.Block})
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayhost/internal/assistant/service"
	apperrors "stayhost/pkg/errors"
	httputil "stayhost/pkg/http"
	"stayhost/pkg/logger"
	"stayhost/pkg/middleware"
	"stayhost/pkg/model"
)

const MsgInvalidBody = "Il corpo della richiesta non è un JSON valido."

type AssistantHandler struct {
	service service.AssistantService
	// publicOrigin overrides the request origin when resolving relative image paths.
	publicOrigin string
	log          *logger.Logger
}

func NewAssistantHandler(service service.AssistantService, publicOrigin string, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		service:      service,
		publicOrigin: publicOrigin,
		log:          log,
	}
}

func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(MsgInvalidBody)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Ask", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	resp, err := h.service.Ask(r.Context(), &req, service.RequestMeta{
		CallerID:  middleware.GetCallerID(r),
		Origin:    h.origin(r),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Ask", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ask", "operation", "WriteJSON", "error", err)
	}
}

func (h *AssistantHandler) origin(r *http.Request) string {
	if h.publicOrigin != "" {
		return h.publicOrigin
	}
	return httputil.RequestOrigin(r)
}

func (h *AssistantHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/assistant", h.Ask)
	router.POST("/assistant", h.Ask)
}

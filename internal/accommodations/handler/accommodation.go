package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayhost/internal/accommodations/service"
	apperrors "stayhost/pkg/errors"
	httputil "stayhost/pkg/http"
	"stayhost/pkg/logger"
	"stayhost/pkg/model"
)

type AccommodationHandler struct {
	service service.AccommodationService
	log     *logger.Logger
}

func NewAccommodationHandler(service service.AccommodationService, log *logger.Logger) *AccommodationHandler {
	return &AccommodationHandler{
		service: service,
		log:     log,
	}
}

func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var a model.Accommodation
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &a); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, a); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccommodationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, a); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccommodationHandler) GetBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	a, err := h.service.GetBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetBySlug", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, a); err != nil {
		h.log.Error("failed to write success response", "handler", "GetBySlug", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccommodationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	items, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, items, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

// ListActive serves the catalog the assistant reads. guests and location
// are optional query parameters.
func (h *AccommodationHandler) ListActive(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	guests, err := httputil.ExtractOptionalInt(r, "guests")
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListActive", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	items, err := h.service.ListActive(r.Context(), model.AccommodationFilter{
		Guests:   guests,
		Location: r.URL.Query().Get("location"),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListActive", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, items); err != nil {
		h.log.Error("failed to write success response", "handler", "ListActive", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccommodationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.AccommodationUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccommodationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/accommodations", h.Create)
	router.GET("/api/v1/accommodations", h.GetAll)
	router.GET("/api/v1/accommodations/active", h.ListActive)
	router.GET("/api/v1/accommodations/id/:id", h.GetByID)
	router.GET("/api/v1/accommodations/slug/:slug", h.GetBySlug)
	router.PATCH("/api/v1/accommodations/id/:id", h.Update)
	router.DELETE("/api/v1/accommodations/id/:id", h.Delete)
}

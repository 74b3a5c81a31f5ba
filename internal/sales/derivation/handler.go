package derivation

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/platform/httpx"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/invoices"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/sales/quotations"
	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/derive", h.Derive)
}

func actorFrom(r *http.Request) audit.Actor {
	return audit.Actor{
		Name:       r.Header.Get("X-Actor"),
		SourceAddr: r.RemoteAddr,
	}
}

func (h *Handler) Derive(w http.ResponseWriter, r *http.Request) {
	var req DeriveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	result, err := h.service.Derive(r.Context(), req, actorFrom(r))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEdge):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Derivation", err.Error())
		case errors.Is(err, quotations.ErrNotFound), errors.Is(err, invoices.ErrNotFound):
			httpx.RespondError(w, httpx.ErrNotFound)
		case errors.Is(err, shared.ErrIdempotencyConflict):
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
		default:
			h.logger.Error("derive document", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

package handler

import (
	"net/http"
	"strconv"

	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/usecase"
	"doctor-booking/pkg/response"
	"doctor-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	validator       *validator.CustomValidator
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, validator *validator.CustomValidator) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		validator:       validator,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// ListAuditLogs accepts user_id, action, entity, entity_id and limit filters.
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := dto.AuditLogQuery{
		Action:   params.Get("action"),
		Entity:   params.Get("entity"),
		EntityID: params.Get("entity_id"),
	}
	if raw := params.Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid user ID")
			return
		}
		query.UserID = &userID
	}
	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid limit")
			return
		}
		query.Limit = limit
	}
	if err := h.validator.Validate(&query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	auditLogs, err := h.auditLogUsecase.ListAuditLogs(r.Context(), &query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully",
		auditLogs.Logs, &response.Meta{Total: auditLogs.Total})
}

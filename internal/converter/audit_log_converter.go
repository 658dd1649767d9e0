package converter

import (
	"doctor-booking/internal/delivery/dto"
	"doctor-booking/internal/domain/entity"
)

// defaultAuditLogLimit caps an unbounded audit listing.
const defaultAuditLogLimit = 100

func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		Action:    log.Action,
		Entity:    log.Entity,
		EntityID:  log.EntityID,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt,
	}
}

func AuditLogsToListResponse(logs []entity.AuditLog) *dto.AuditLogListResponse {
	responses := make([]dto.AuditLogResponse, len(logs))
	for i := range logs {
		responses[i] = *AuditLogToResponse(&logs[i])
	}
	return &dto.AuditLogListResponse{
		Logs:  responses,
		Total: len(responses),
	}
}

// AuditLogQueryToFilter maps the listing query onto the repository filter.
func AuditLogQueryToFilter(query *dto.AuditLogQuery) entity.AuditLogFilter {
	filter := entity.AuditLogFilter{Limit: defaultAuditLogLimit}
	if query == nil {
		return filter
	}
	filter.UserID = query.UserID
	filter.Action = query.Action
	filter.Entity = query.Entity
	filter.EntityID = query.EntityID
	if query.Limit > 0 {
		filter.Limit = query.Limit
	}
	return filter
}

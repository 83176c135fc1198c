package leave

import (
	"context"
	"time"

	"hris-leave/internal/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lookupNames is best effort; a failed lookup only drops display names.
func (s *service) lookupNames(ctx context.Context, ids ...uuid.UUID) map[uuid.UUID]string {
	names, err := s.directory.Names(ctx, ids)
	if err != nil {
		s.log(ctx).Warn("lookup employee names failed", zap.Error(err))
		return map[uuid.UUID]string{}
	}
	return names
}

func (s *service) mapToListResponse(ctx context.Context, items []LeaveRequest) []LeaveResponse {
	ids := make([]uuid.UUID, 0, len(items)*2)
	for _, l := range items {
		ids = append(ids, l.EmployeeID)
		if l.ApproverID != nil {
			ids = append(ids, *l.ApproverID)
		}
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		names = s.lookupNames(ctx, ids...)
	}

	resp := make([]LeaveResponse, 0, len(items))
	for _, l := range items {
		resp = append(resp, s.mapToResponse(l, names))
	}
	return resp
}

func (s *service) mapToResponse(l LeaveRequest, names map[uuid.UUID]string) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		EmployeeID:      l.EmployeeID.String(),
		EmployeeName:    names[l.EmployeeID],
		LeaveType:       string(l.LeaveType),
		LeaveLabel:      s.ledger.Policy().Label(l.LeaveType),
		StartDate:       l.StartDate.Format(calendar.DateLayout),
		EndDate:         l.EndDate.Format(calendar.DateLayout),
		TotalDays:       l.BusinessDays(),
		Reason:          l.Reason,
		Status:          string(l.Status),
		ResponseMessage: l.ResponseMessage,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApproverID != nil {
		v := l.ApproverID.String()
		resp.ApproverID = &v
		resp.ApproverName = names[*l.ApproverID]
	}
	if l.RespondedAt != nil {
		v := l.RespondedAt.UTC().Format(time.RFC3339)
		resp.RespondedAt = &v
	}
	return resp
}

package leave

import (
	"context"

	"hris-leave/internal/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifications go out after commit. Failures are logged and never undo the
// transition.

func (s *service) payload(l LeaveRequest, employeeName string) notification.Payload {
	p := notification.Payload{
		RequestID:    l.ID,
		EmployeeID:   l.EmployeeID,
		EmployeeName: employeeName,
		LeaveType:    l.LeaveType,
		LeaveLabel:   s.ledger.Policy().Label(l.LeaveType),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		TotalDays:    l.BusinessDays(),
		Status:       string(l.Status),
	}
	if l.ResponseMessage != nil {
		p.Message = *l.ResponseMessage
	}
	return p
}

func (s *service) notify(ctx context.Context, recipient uuid.UUID, kind notification.Kind, p notification.Payload) {
	if err := s.notifier.Notify(ctx, recipient, kind, p); err != nil {
		s.log(ctx).Warn("leave notification failed",
			zap.String("leave_id", p.RequestID.String()),
			zap.String("recipient_id", recipient.String()),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func (s *service) notifyCreated(ctx context.Context, l LeaveRequest, employeeName string) {
	p := s.payload(l, employeeName)

	admins, err := s.directory.ActiveAdminIDs(ctx)
	if err != nil {
		s.log(ctx).Warn("list admins for leave notification failed", zap.Error(err))
	}
	for _, admin := range admins {
		s.notify(ctx, admin, notification.KindNewRequest, p)
	}
	s.notify(ctx, l.EmployeeID, notification.KindConfirmation, p)
}

// notifyResponded informs the requester and, for approvals, the manager of the
// requester's department when that manager is someone else.
func (s *service) notifyResponded(ctx context.Context, l LeaveRequest, employeeName string) {
	p := s.payload(l, employeeName)
	s.notify(ctx, l.EmployeeID, notification.KindResponse, p)

	if l.Status != StatusApproved {
		return
	}
	emp, err := s.directory.Employee(ctx, l.EmployeeID)
	if err != nil {
		s.log(ctx).Warn("load employee for manager notification failed", zap.Error(err))
		return
	}
	if emp.DepartmentID == nil {
		return
	}
	managerID, err := s.directory.DepartmentManagerID(ctx, *emp.DepartmentID)
	if err != nil {
		s.log(ctx).Warn("load department manager failed", zap.Error(err))
		return
	}
	if managerID == nil || *managerID == l.EmployeeID {
		return
	}
	s.notify(ctx, *managerID, notification.KindDepartmentApproval, p)
}

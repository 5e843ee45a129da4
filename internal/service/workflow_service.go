package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"
)

// EventPublisher pushes workflow events to connected dashboards. The
// websocket hub satisfies it; tests pass nil.
type EventPublisher interface {
	Publish(event any)
}

// WorkflowEvent is the payload broadcast after every state change.
type WorkflowEvent struct {
	Type        string          `json:"type"`
	RequestID   uint            `json:"request_id"`
	OrderNumber string          `json:"order_number"`
	Status      workflow.Status `json:"status"`
	Actor       string          `json:"actor"`
	At          time.Time       `json:"at"`
}

// StatusUpdateDTO is the approve/reject payload.
type StatusUpdateDTO struct {
	Action    string `json:"action" binding:"required"`
	Note      string `json:"note"`
	Signature string `json:"signature"` // base64 image, optional
}

// StatusUpdateResult echoes the post-transition state together with the
// refreshed dashboard counters.
type StatusUpdateResult struct {
	ID           uint                    `json:"id"`
	OrderNumber  string                  `json:"order_number"`
	Status       workflow.Status         `json:"status"`
	CurrentStage string                  `json:"current_stage"`
	NextRole     workflow.Role           `json:"next_role,omitempty"`
	AutoApproved []string                `json:"auto_approved,omitempty"`
	Stats        repository.RequestStats `json:"stats"`
}

type ItemActionDTO struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason"`
}

type ItemActionResult struct {
	RequestID uint                `json:"request_id"`
	ItemID    uint                `json:"item_id"`
	Status    workflow.ItemStatus `json:"status"`
}

// WorkflowService executes approval pipeline transitions.
type WorkflowService interface {
	UpdateStatus(ctx context.Context, id uint, actor workflow.Actor, update StatusUpdateDTO) (*StatusUpdateResult, error)
	ItemAction(ctx context.Context, requestID, itemID uint, actor workflow.Actor, update ItemActionDTO) (*ItemActionResult, error)
}

type workflowService struct {
	requests      repository.RequestRepository
	users         repository.UserRepository
	notifications NotificationService
	txm           repository.TransactionManager
	events        EventPublisher
}

func NewWorkflowService(
	requests repository.RequestRepository,
	users repository.UserRepository,
	notifications NotificationService,
	txm repository.TransactionManager,
	events EventPublisher,
) WorkflowService {
	return &workflowService{
		requests:      requests,
		users:         users,
		notifications: notifications,
		txm:           txm,
		events:        events,
	}
}

func (s *workflowService) UpdateStatus(ctx context.Context, id uint, actor workflow.Actor, update StatusUpdateDTO) (*StatusUpdateResult, error) {
	action, err := workflow.ParseAction(update.Action)
	if err != nil {
		return nil, err
	}
	if action == workflow.ActionReject {
		if err := workflow.ValidateRejectNote(update.Note); err != nil {
			return nil, err
		}
	}

	pr, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	effectiveRole, err := workflow.CanAct(actor, workflow.Snapshot{
		Status:     pr.Status,
		Department: pr.Department,
		CreatedBy:  pr.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	var skipped []workflow.Status
	prevStatus := pr.Status

	if action == workflow.ActionApprove && prevStatus == workflow.StatusPendingProcurement {
		return nil, workflow.ErrApproveAtProcurement
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		switch action {
		case workflow.ActionApprove:
			s.recordStageApproval(pr, prevStatus, actor, update.Signature)

			next, autoSkipped := workflow.Advance(prevStatus, actor.Username, func(st workflow.Status) string {
				return s.assigneeFor(txCtx, st, pr)
			})
			skipped = autoSkipped
			pr.Status = next

			if histErr := s.requests.AddHistory(txCtx, &model.ApprovalHistory{
				RequestID: pr.ID,
				ActorRole: effectiveRole,
				ActorUser: actor.Username,
				Action:    model.HistoryActionApprove,
				Note:      update.Note,
				Signature: update.Signature,
			}); histErr != nil {
				return histErr
			}
			for _, st := range skipped {
				s.recordStageApproval(pr, st, actor, update.Signature)
				role, _ := workflow.RequiredRole(st)
				if histErr := s.requests.AddHistory(txCtx, &model.ApprovalHistory{
					RequestID: pr.ID,
					ActorRole: role,
					ActorUser: actor.Username,
					Action:    model.HistoryActionAutoApprove,
					Note:      "stage cleared automatically: same approver as previous stage",
				}); histErr != nil {
					return histErr
				}
			}

		case workflow.ActionReject:
			pr.Status = workflow.StatusRejected
			pr.RejectionNote = update.Note
			if histErr := s.requests.AddHistory(txCtx, &model.ApprovalHistory{
				RequestID: pr.ID,
				ActorRole: effectiveRole,
				ActorUser: actor.Username,
				Action:    model.HistoryActionReject,
				Note:      update.Note,
			}); histErr != nil {
				return histErr
			}
		}

		if saveErr := s.requests.Update(txCtx, pr); saveErr != nil {
			return fmt.Errorf("failed to save request: %w", saveErr)
		}

		return s.notifyDecision(txCtx, pr, actor, effectiveRole, action, update.Note)
	})
	if err != nil {
		return nil, err
	}

	s.publish(pr, actor.Username, "status_changed")

	stats, statsErr := s.requests.Stats(ctx)
	if statsErr != nil {
		log.Printf("failed to load request stats after update of request %d: %v", pr.ID, statsErr)
	}

	result := &StatusUpdateResult{
		ID:           pr.ID,
		OrderNumber:  pr.OrderNumber,
		Status:       pr.Status,
		CurrentStage: pr.CurrentStage,
		NextRole:     pr.NextRole,
		Stats:        stats,
	}
	for _, st := range skipped {
		result.AutoApproved = append(result.AutoApproved, st.Stage())
	}
	return result, nil
}

func (s *workflowService) ItemAction(ctx context.Context, requestID, itemID uint, actor workflow.Actor, update ItemActionDTO) (*ItemActionResult, error) {
	action, err := workflow.ParseAction(update.Action)
	if err != nil {
		return nil, err
	}

	pr, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	if _, err := workflow.CanAct(actor, workflow.Snapshot{
		Status:     pr.Status,
		Department: pr.Department,
		CreatedBy:  pr.CreatedBy,
	}); err != nil {
		return nil, err
	}

	next, err := workflow.DecideItem(pr.Status, action, update.Reason)
	if err != nil {
		return nil, err
	}

	item, err := s.requests.FindItem(ctx, requestID, itemID)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	item.Status = next
	item.DecidedBy = actor.Username
	if next == workflow.ItemRejected {
		item.RejectionReason = update.Reason
	} else {
		item.RejectionReason = ""
	}

	if err := s.requests.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	return &ItemActionResult{RequestID: requestID, ItemID: itemID, Status: next}, nil
}

// assigneeFor resolves who is expected to clear a pending status,
// feeding the auto-skip chain in workflow.Advance.
func (s *workflowService) assigneeFor(ctx context.Context, st workflow.Status, pr *model.PurchaseRequest) string {
	switch st {
	case workflow.StatusPendingManager:
		if u, err := s.users.FirstManagerOfDepartment(ctx, pr.Department); err == nil {
			return u.Username
		}
	case workflow.StatusPendingFinance:
		if u, err := s.users.FirstByRole(ctx, workflow.RoleFinance); err == nil {
			return u.Username
		}
	case workflow.StatusPendingDisbursement:
		if u, err := s.users.FirstByRole(ctx, workflow.RoleDisbursement); err == nil {
			return u.Username
		}
	case workflow.StatusPendingProcurement:
		if u, err := s.users.FirstByRole(ctx, workflow.RoleProcurement); err == nil {
			return u.Username
		}
	}
	return ""
}

// recordStageApproval fills the stage's approval block the first time
// that stage acts. Existing entries are never overwritten.
func (s *workflowService) recordStageApproval(pr *model.PurchaseRequest, st workflow.Status, actor workflow.Actor, signature string) {
	var block *model.StageApproval
	switch st {
	case workflow.StatusPendingManager:
		block = &pr.ManagerApproval
	case workflow.StatusPendingFinance:
		block = &pr.FinanceApproval
	case workflow.StatusPendingDisbursement:
		block = &pr.DisbursementApproval
	default:
		return
	}

	if block.Date != "" {
		return
	}
	if block.Name == "" {
		block.Name = actor.Username
	}
	block.Date = time.Now().Format("2006-01-02")
	if signature != "" {
		block.Signature = signature
	}
}

func (s *workflowService) notifyDecision(ctx context.Context, pr *model.PurchaseRequest, actor workflow.Actor, role workflow.Role, action workflow.Action, note string) error {
	actionType := model.NotifyApprove
	title := "Request approved"
	message := fmt.Sprintf("Request %s was approved by %s and moved to the %s stage.", pr.OrderNumber, actor.Username, pr.CurrentStage)
	if action == workflow.ActionReject {
		actionType = model.NotifyReject
		title = "Request rejected"
		message = fmt.Sprintf("Request %s was rejected by %s.", pr.OrderNumber, actor.Username)
	} else if pr.Status == workflow.StatusCompleted {
		title = "Request completed"
		message = fmt.Sprintf("Request %s completed its approval pipeline.", pr.OrderNumber)
	}

	return s.notifications.Notify(ctx, Notice{
		RequestID:  &pr.ID,
		Recipients: s.notifications.Watchers(ctx, pr),
		Title:      title,
		Message:    message,
		ActionType: actionType,
		ActorUser:  actor.Username,
		ActorRole:  role,
		Note:       note,
	})
}

func (s *workflowService) publish(pr *model.PurchaseRequest, actor, eventType string) {
	if s.events == nil {
		return
	}
	s.events.Publish(WorkflowEvent{
		Type:        eventType,
		RequestID:   pr.ID,
		OrderNumber: pr.OrderNumber,
		Status:      pr.Status,
		Actor:       actor,
		At:          time.Now(),
	})
}

package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/shopspring/decimal"
)

// ProcurementItemDTO is one adjusted line in a bulk item update. Lines
// are matched to stored items by id; unknown ids are ignored.
type ProcurementItemDTO struct {
	ID            uint            `json:"id" binding:"required"`
	ItemName      string          `json:"item_name"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Quantity      float64         `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
}

type ProcurementUpdateDTO struct {
	Status        workflow.ProcurementStatus `json:"procurement_status"`
	Note          string                     `json:"note"`
	AssignedTo    string                     `json:"assigned_to"`
	MarkCompleted bool                       `json:"mark_completed"`
	Items         []ProcurementItemDTO       `json:"items"`
}

type ProcurementUpdateResult struct {
	ID                uint                       `json:"id"`
	OrderNumber       string                     `json:"order_number"`
	Status            workflow.Status            `json:"status"`
	ProcurementStatus workflow.ProcurementStatus `json:"procurement_status"`
	TotalAmount       decimal.Decimal            `json:"total_amount"`
}

// ProcurementService serves the procurement desk: listing requests that
// reached the final stage and applying adjustment updates.
type ProcurementService interface {
	List(ctx context.Context, statusFilter string) ([]RequestResponse, error)
	Update(ctx context.Context, id uint, actor workflow.Actor, update ProcurementUpdateDTO) (*ProcurementUpdateResult, error)
}

type procurementService struct {
	requests      repository.RequestRepository
	notifications NotificationService
	txm           repository.TransactionManager
	events        EventPublisher
}

func NewProcurementService(
	requests repository.RequestRepository,
	notifications NotificationService,
	txm repository.TransactionManager,
	events EventPublisher,
) ProcurementService {
	return &procurementService{
		requests:      requests,
		notifications: notifications,
		txm:           txm,
		events:        events,
	}
}

// List returns the procurement workspace: everything at the procurement
// stage plus already completed requests. statusFilter narrows by the
// secondary axis, with "completed" meaning the primary status.
func (s *procurementService) List(ctx context.Context, statusFilter string) ([]RequestResponse, error) {
	filter := repository.RequestFilter{
		Statuses: []workflow.Status{workflow.StatusPendingProcurement, workflow.StatusCompleted},
	}

	switch statusFilter {
	case "", "all":
	case string(workflow.StatusCompleted):
		filter.Statuses = []workflow.Status{workflow.StatusCompleted}
	default:
		ps := workflow.ProcurementStatus(statusFilter)
		if !workflow.ValidProcurementStatus(ps) {
			return nil, workflow.ErrInvalidProcurementStatus
		}
		filter.ProcurementStatus = ps
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch procurement requests: %w", err)
	}
	return toRequestResponses(requests, true), nil
}

func (s *procurementService) Update(ctx context.Context, id uint, actor workflow.Actor, update ProcurementUpdateDTO) (*ProcurementUpdateResult, error) {
	pr, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}

	if err := workflow.ValidateProcurementUpdate(pr.Status, update.Status, update.Note); err != nil {
		return nil, err
	}

	change := workflow.ProcurementUpdate{Status: update.Status, MarkCompleted: update.MarkCompleted}
	now := time.Now()

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if len(update.Items) > 0 {
			s.applyItemAdjustments(pr, update.Items)
		}

		if update.Status != "" {
			pr.ProcurementStatus = update.Status
			pr.ProcurementNote = update.Note
		}
		pr.ProcurementAssignedTo = actor.Username
		if update.AssignedTo != "" {
			pr.ProcurementAssignedTo = update.AssignedTo
		}
		pr.ProcurementUpdatedAt = &now

		if change.Closes() {
			// A bare mark_completed close counts as a purchase.
			if update.Status == "" {
				pr.ProcurementStatus = workflow.ProcurementPurchased
			}
			pr.Status = workflow.StatusCompleted
			pr.ProcurementCompletedAt = &now
		}

		for i := range pr.Items {
			if itemErr := s.requests.UpdateItem(txCtx, &pr.Items[i]); itemErr != nil {
				return fmt.Errorf("failed to save item: %w", itemErr)
			}
		}
		if saveErr := s.requests.Update(txCtx, pr); saveErr != nil {
			return fmt.Errorf("failed to save request: %w", saveErr)
		}

		if histErr := s.requests.AddHistory(txCtx, &model.ApprovalHistory{
			RequestID: pr.ID,
			ActorRole: workflow.RoleProcurement,
			ActorUser: actor.Username,
			Action:    model.HistoryActionProcurementUpdate,
			Note:      update.Note,
		}); histErr != nil {
			return histErr
		}

		title := "Procurement update"
		message := fmt.Sprintf("Procurement updated request %s to %s.", pr.OrderNumber, pr.ProcurementStatus)
		if change.Closes() {
			title = "Request completed"
			message = fmt.Sprintf("Request %s was purchased and closed by procurement.", pr.OrderNumber)
		}
		return s.notifications.Notify(txCtx, Notice{
			RequestID:  &pr.ID,
			Recipients: s.notifications.Watchers(txCtx, pr),
			Title:      title,
			Message:    message,
			ActionType: model.NotifyProcurement,
			ActorUser:  actor.Username,
			ActorRole:  workflow.RoleProcurement,
			Note:       update.Note,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(WorkflowEvent{
			Type:        "procurement_updated",
			RequestID:   pr.ID,
			OrderNumber: pr.OrderNumber,
			Status:      pr.Status,
			Actor:       actor.Username,
			At:          now,
		})
	}

	return &ProcurementUpdateResult{
		ID:                pr.ID,
		OrderNumber:       pr.OrderNumber,
		Status:            pr.Status,
		ProcurementStatus: pr.ProcurementStatus,
		TotalAmount:       pr.TotalAmount,
	}, nil
}

// applyItemAdjustments overwrites stored lines with the adjusted values,
// matched by item id, and re-sums the grand total.
func (s *procurementService) applyItemAdjustments(pr *model.PurchaseRequest, adjusted []ProcurementItemDTO) {
	byID := make(map[uint]ProcurementItemDTO, len(adjusted))
	for _, a := range adjusted {
		byID[a.ID] = a
	}

	amounts := make([]workflow.ItemAmount, 0, len(pr.Items))
	for i := range pr.Items {
		if a, ok := byID[pr.Items[i].ID]; ok {
			if a.ItemName != "" {
				pr.Items[i].ItemName = a.ItemName
			}
			pr.Items[i].Specification = a.Specification
			pr.Items[i].Unit = a.Unit
			pr.Items[i].Quantity = a.Quantity
			pr.Items[i].Price = a.Price
			pr.Items[i].RecalcTotal()
		}
		amounts = append(amounts, workflow.ItemAmount{
			Quantity: pr.Items[i].Quantity,
			Price:    pr.Items[i].Price,
		})
	}
	pr.TotalAmount = workflow.GrandTotal(amounts)
}

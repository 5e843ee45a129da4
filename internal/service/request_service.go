package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemDTO struct {
	ItemName      string          `json:"item_name" binding:"required"`
	Specification string          `json:"specification"`
	Unit          string          `json:"unit"`
	Quantity      float64         `json:"quantity" binding:"min=0"`
	Price         decimal.Decimal `json:"price"`
}

type ApprovalDataDTO struct {
	RequesterName        string `json:"requester_name"`
	RequesterPosition    string `json:"requester_position"`
	RequesterDate        string `json:"requester_date"`
	ManagerName          string `json:"manager_name"`
	ManagerPosition      string `json:"manager_position"`
	FinanceName          string `json:"finance_name"`
	FinancePosition      string `json:"finance_position"`
	DisbursementName     string `json:"disbursement_name"`
	DisbursementPosition string `json:"disbursement_position"`
}

type CreateRequestDTO struct {
	Requester       string          `json:"requester" binding:"required"`
	Department      string          `json:"department" binding:"required"`
	DeliveryAddress string          `json:"delivery_address" binding:"required"`
	DeliveryDate    string          `json:"delivery_date" binding:"required"`
	ProjectCode     string          `json:"project_code" binding:"required"`
	OrderNumber     string          `json:"order_number"`
	Currency        string          `json:"currency" binding:"required"`
	Items           []CreateItemDTO `json:"items" binding:"required,min=1"`
	ApprovalData    ApprovalDataDTO `json:"approval_data"`
}

type ItemResponse struct {
	ID              uint                `json:"id"`
	ItemName        string              `json:"item_name"`
	Specification   string              `json:"specification"`
	Unit            string              `json:"unit"`
	Quantity        float64             `json:"quantity"`
	Price           decimal.Decimal     `json:"price"`
	Total           decimal.Decimal     `json:"total"`
	Status          workflow.ItemStatus `json:"status"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
}

type RequestResponse struct {
	ID                uint                       `json:"id"`
	OrderNumber       string                     `json:"order_number"`
	Requester         string                     `json:"requester"`
	Department        string                     `json:"department"`
	DeliveryAddress   string                     `json:"delivery_address"`
	DeliveryDate      string                     `json:"delivery_date"`
	ProjectCode       string                     `json:"project_code"`
	Currency          string                     `json:"currency"`
	TotalAmount       decimal.Decimal            `json:"total_amount"`
	Status            workflow.Status            `json:"status"`
	CurrentStage      string                     `json:"current_stage"`
	NextRole          workflow.Role              `json:"next_role,omitempty"`
	ProcurementStatus workflow.ProcurementStatus `json:"procurement_status,omitempty"`
	RejectionNote     string                     `json:"rejection_note,omitempty"`
	CreatedBy         string                     `json:"created_by"`
	CanPrint          bool                       `json:"can_print"`
	CreatedAt         string                     `json:"created_at,omitempty"`
	UpdatedAt         string                     `json:"updated_at,omitempty"`
	Items             []ItemResponse             `json:"items,omitempty"`

	Approvals map[string]model.StageApproval `json:"approvals,omitempty"`
}

type QueueResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int64             `json:"total"`
	Approved int64             `json:"approved"`
	Rejected int64             `json:"rejected"`
	Pending  int               `json:"pending"`
}

type DecisionResponse struct {
	RequestResponse
	DecidedAt    string `json:"decided_at,omitempty"`
	DecisionNote string `json:"decision_note,omitempty"`
}

type ListRequestsFilter struct {
	Status     workflow.Status
	Department string
	Limit      int
	Offset     int
}

var (
	ErrRequestNotFound      = errors.New("request not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists, choose another")
	ErrInvalidCurrency      = errors.New("invalid currency: must be SYP, USD or EUR")
)

// --- Interface ---

type RequestService interface {
	Create(ctx context.Context, actor workflow.Actor, req CreateRequestDTO) (*RequestResponse, error)
	Get(ctx context.Context, id uint) (*RequestResponse, error)
	List(ctx context.Context, actor workflow.Actor, filter ListRequestsFilter) ([]RequestResponse, error)
	Queue(ctx context.Context, actor workflow.Actor) (*QueueResponse, error)
	DecidedByMe(ctx context.Context, username string, action workflow.Action) ([]DecisionResponse, error)
	OwnRequests(ctx context.Context, actor workflow.Actor) ([]RequestResponse, error)
	Recent(ctx context.Context, limit int) ([]RequestResponse, error)
	ResetAll(ctx context.Context) error
}

type requestService struct {
	requests repository.RequestRepository
	txm      repository.TransactionManager
}

func NewRequestService(requests repository.RequestRepository, txm repository.TransactionManager) RequestService {
	return &requestService{requests: requests, txm: txm}
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, actor workflow.Actor, req CreateRequestDTO) (*RequestResponse, error) {
	if !model.ValidCurrency(req.Currency) {
		return nil, ErrInvalidCurrency
	}

	orderNumber := strings.TrimSpace(req.OrderNumber)
	if orderNumber == "" || orderNumber == workflow.OrderPrefix {
		orderNumber = workflow.GenerateOrderNumber(time.Now())
	} else {
		orderNumber = workflow.EnsureOrderPrefix(orderNumber)
	}

	items := make([]model.PurchaseItem, 0, len(req.Items))
	amounts := make([]workflow.ItemAmount, 0, len(req.Items))
	for _, it := range req.Items {
		item := model.PurchaseItem{
			ItemName:      it.ItemName,
			Specification: it.Specification,
			Unit:          it.Unit,
			Quantity:      it.Quantity,
			Price:         it.Price,
			Status:        workflow.ItemPending,
		}
		item.RecalcTotal()
		items = append(items, item)
		amounts = append(amounts, workflow.ItemAmount{Quantity: it.Quantity, Price: it.Price})
	}

	// A manager submitting for their own department would otherwise be
	// barred from clearing their own request, so it enters at finance.
	status := workflow.StatusPendingManager
	creationNote := "request created and routed to the direct manager"
	if actor.Role == workflow.RoleManager && actor.Department == req.Department {
		status = workflow.StatusPendingFinance
		creationNote = "request created and routed straight to finance"
	}

	pr := &model.PurchaseRequest{
		OrderNumber:     orderNumber,
		Requester:       req.Requester,
		Department:      req.Department,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryDate:    req.DeliveryDate,
		ProjectCode:     req.ProjectCode,
		Currency:        req.Currency,
		TotalAmount:     workflow.GrandTotal(amounts),
		Status:          status,
		CreatedBy:       actor.Username,
		Items:           items,
		RequesterApproval: model.StageApproval{
			Name:     req.ApprovalData.RequesterName,
			Position: req.ApprovalData.RequesterPosition,
			Date:     req.ApprovalData.RequesterDate,
		},
		ManagerApproval: model.StageApproval{
			Name:     req.ApprovalData.ManagerName,
			Position: req.ApprovalData.ManagerPosition,
		},
		FinanceApproval: model.StageApproval{
			Name:     req.ApprovalData.FinanceName,
			Position: req.ApprovalData.FinancePosition,
		},
		DisbursementApproval: model.StageApproval{
			Name:     req.ApprovalData.DisbursementName,
			Position: req.ApprovalData.DisbursementPosition,
		},
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.requests.Create(txCtx, pr); createErr != nil {
			if errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return ErrDuplicateOrderNumber
			}
			return fmt.Errorf("failed to create request: %w", createErr)
		}
		return s.requests.AddHistory(txCtx, &model.ApprovalHistory{
			RequestID: pr.ID,
			ActorRole: workflow.RoleRequester,
			ActorUser: actor.Username,
			Action:    model.HistoryActionCreate,
			Note:      creationNote,
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toRequestResponse(pr, true)
	return &resp, nil
}

func (s *requestService) Get(ctx context.Context, id uint) (*RequestResponse, error) {
	pr, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	resp := toRequestResponse(pr, true)
	return &resp, nil
}

// List is the generic dashboard listing: admins see everything,
// everyone else is scoped to their own department unless the filter
// names one.
func (s *requestService) List(ctx context.Context, actor workflow.Actor, filter ListRequestsFilter) ([]RequestResponse, error) {
	repoFilter := repository.RequestFilter{
		Status:     filter.Status,
		Department: filter.Department,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if repoFilter.Department == "" && actor.Role != workflow.RoleAdmin {
		repoFilter.Department = actor.Department
	}

	requests, err := s.requests.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}
	return toRequestResponses(requests, false), nil
}

func (s *requestService) Queue(ctx context.Context, actor workflow.Actor) (*QueueResponse, error) {
	filter := repository.RequestFilter{}
	switch actor.Role {
	case workflow.RoleAdmin:
		filter.Statuses = []workflow.Status{
			workflow.StatusPendingManager,
			workflow.StatusPendingFinance,
			workflow.StatusPendingDisbursement,
			workflow.StatusPendingProcurement,
		}
	case workflow.RoleManager:
		filter.Status = workflow.StatusPendingManager
		filter.Department = actor.Department
		if actor.Department == "" {
			// A manager with no department has an empty queue, not
			// everyone's.
			return &QueueResponse{Requests: []RequestResponse{}}, nil
		}
	default:
		qs, ok := workflow.QueueStatus(actor.Role)
		if !ok {
			return &QueueResponse{Requests: []RequestResponse{}}, nil
		}
		filter.Status = qs
	}

	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch queue: %w", err)
	}

	stats, err := s.requests.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	out := toRequestResponses(requests, true)
	return &QueueResponse{
		Requests: out,
		Total:    stats.Total,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
		Pending:  len(out),
	}, nil
}

func (s *requestService) DecidedByMe(ctx context.Context, username string, action workflow.Action) ([]DecisionResponse, error) {
	var actions []string
	if action == workflow.ActionApprove {
		actions = []string{model.HistoryActionApprove, model.HistoryActionAutoApprove}
	} else {
		actions = []string{model.HistoryActionReject}
	}

	requests, err := s.requests.ListByHistoryAction(ctx, username, actions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch decided requests: %w", err)
	}

	result := make([]DecisionResponse, 0, len(requests))
	for i := range requests {
		resp := DecisionResponse{RequestResponse: toRequestResponse(&requests[i], false)}
		if entry, histErr := s.requests.LatestHistory(ctx, requests[i].ID, username, actions); histErr == nil {
			resp.DecidedAt = entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
			resp.DecisionNote = entry.Note
		}
		result = append(result, resp)
	}
	return result, nil
}

func (s *requestService) OwnRequests(ctx context.Context, actor workflow.Actor) ([]RequestResponse, error) {
	filter := repository.RequestFilter{}
	if actor.Role != workflow.RoleAdmin {
		filter.CreatedBy = actor.Username
	}
	requests, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch own requests: %w", err)
	}
	return toRequestResponses(requests, false), nil
}

func (s *requestService) Recent(ctx context.Context, limit int) ([]RequestResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	requests, err := s.requests.List(ctx, repository.RequestFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent requests: %w", err)
	}
	return toRequestResponses(requests, false), nil
}

func (s *requestService) ResetAll(ctx context.Context) error {
	return s.requests.DeleteAll(ctx)
}

// --- Helpers ---

func toRequestResponse(pr *model.PurchaseRequest, withItems bool) RequestResponse {
	resp := RequestResponse{
		ID:                pr.ID,
		OrderNumber:       pr.OrderNumber,
		Requester:         pr.Requester,
		Department:        pr.Department,
		DeliveryAddress:   pr.DeliveryAddress,
		DeliveryDate:      pr.DeliveryDate,
		ProjectCode:       pr.ProjectCode,
		Currency:          pr.Currency,
		TotalAmount:       pr.TotalAmount,
		Status:            pr.Status,
		CurrentStage:      pr.CurrentStage,
		NextRole:          pr.NextRole,
		ProcurementStatus: pr.ProcurementStatus,
		RejectionNote:     pr.RejectionNote,
		CreatedBy:         pr.CreatedBy,
		CanPrint:          workflow.CanPrint(pr.Status),
		CreatedAt:         pr.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         pr.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if withItems {
		resp.Items = make([]ItemResponse, 0, len(pr.Items))
		for _, it := range pr.Items {
			resp.Items = append(resp.Items, ItemResponse{
				ID:              it.ID,
				ItemName:        it.ItemName,
				Specification:   it.Specification,
				Unit:            it.Unit,
				Quantity:        it.Quantity,
				Price:           it.Price,
				Total:           it.Total,
				Status:          it.Status.Normalize(),
				RejectionReason: it.RejectionReason,
			})
		}
		resp.Approvals = map[string]model.StageApproval{
			"requester":    pr.RequesterApproval,
			"manager":      pr.ManagerApproval,
			"finance":      pr.FinanceApproval,
			"disbursement": pr.DisbursementApproval,
		}
	}

	return resp
}

func toRequestResponses(requests []model.PurchaseRequest, withItems bool) []RequestResponse {
	result := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, toRequestResponse(&requests[i], withItems))
	}
	return result
}

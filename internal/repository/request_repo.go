package repository

import (
	"backend/internal/model"
	"backend/internal/workflow"
	"context"

	"gorm.io/gorm"
)

// RequestFilter narrows List queries. Zero-valued fields are ignored.
type RequestFilter struct {
	Status            workflow.Status
	Statuses          []workflow.Status
	Department        string
	CreatedBy         string
	ProcurementStatus workflow.ProcurementStatus
	Limit             int
	Offset            int
}

// RequestStats are the quick dashboard counters returned with queue
// responses.
type RequestStats struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// RequestRepository defines data access for purchase requests, their
// items and their approval history.
type RequestRepository interface {
	Create(ctx context.Context, pr *model.PurchaseRequest) error
	FindByID(ctx context.Context, id uint) (*model.PurchaseRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.PurchaseRequest, error)
	Update(ctx context.Context, pr *model.PurchaseRequest) error
	Stats(ctx context.Context) (RequestStats, error)

	FindItem(ctx context.Context, requestID, itemID uint) (*model.PurchaseItem, error)
	UpdateItem(ctx context.Context, item *model.PurchaseItem) error

	AddHistory(ctx context.Context, entry *model.ApprovalHistory) error
	ListByHistoryAction(ctx context.Context, username string, actions []string) ([]model.PurchaseRequest, error)
	LatestHistory(ctx context.Context, requestID uint, username string, actions []string) (*model.ApprovalHistory, error)

	DeleteAll(ctx context.Context) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, pr *model.PurchaseRequest) error {
	return GetDB(ctx, r.db).Create(pr).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*model.PurchaseRequest, error) {
	var pr model.PurchaseRequest
	if err := GetDB(ctx, r.db).Preload("Items").First(&pr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.PurchaseRequest, error) {
	query := GetDB(ctx, r.db).Preload("Items")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.CreatedBy != "" {
		query = query.Where("created_by = ?", filter.CreatedBy)
	}
	if filter.ProcurementStatus != "" {
		query = query.Where("procurement_status = ?", filter.ProcurementStatus)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var requests []model.PurchaseRequest
	if err := query.Order("id DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) Update(ctx context.Context, pr *model.PurchaseRequest) error {
	return GetDB(ctx, r.db).Save(pr).Error
}

func (r *requestRepository) Stats(ctx context.Context) (RequestStats, error) {
	var stats RequestStats
	db := GetDB(ctx, r.db).Model(&model.PurchaseRequest{})

	if err := db.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("status IN ?", []workflow.Status{workflow.StatusApproved, workflow.StatusCompleted}).
		Count(&stats.Approved).Error; err != nil {
		return stats, err
	}
	if err := db.Session(&gorm.Session{}).
		Where("status = ?", workflow.StatusRejected).
		Count(&stats.Rejected).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *requestRepository) FindItem(ctx context.Context, requestID, itemID uint) (*model.PurchaseItem, error) {
	var item model.PurchaseItem
	if err := GetDB(ctx, r.db).
		First(&item, "id = ? AND request_id = ?", itemID, requestID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *requestRepository) UpdateItem(ctx context.Context, item *model.PurchaseItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *requestRepository) AddHistory(ctx context.Context, entry *model.ApprovalHistory) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *requestRepository) ListByHistoryAction(ctx context.Context, username string, actions []string) ([]model.PurchaseRequest, error) {
	var requests []model.PurchaseRequest
	err := GetDB(ctx, r.db).
		Distinct("purchase_requests.*").
		Joins("JOIN approval_histories ON approval_histories.request_id = purchase_requests.id").
		Where("approval_histories.actor_user = ? AND approval_histories.action IN ?", username, actions).
		Order("purchase_requests.id DESC").
		Find(&requests).Error
	return requests, err
}

func (r *requestRepository) LatestHistory(ctx context.Context, requestID uint, username string, actions []string) (*model.ApprovalHistory, error) {
	var entry model.ApprovalHistory
	err := GetDB(ctx, r.db).
		Where("request_id = ? AND actor_user = ? AND action IN ?", requestID, username, actions).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteAll wipes requests together with their items and history, for
// the admin reset endpoint only.
func (r *requestRepository) DeleteAll(ctx context.Context) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("1 = 1").Delete(&model.ApprovalHistory{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&model.PurchaseItem{}).Error; err != nil {
		return err
	}
	return db.Where("1 = 1").Delete(&model.PurchaseRequest{}).Error
}

package service

import (
	"context"
	"errors"
	"sort"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository layer so the services can be
// exercised without a database.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeRequestRepo struct {
	requests map[uint]*model.PurchaseRequest
	history  []model.ApprovalHistory
	nextID   uint
	statsErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[uint]*model.PurchaseRequest{}}
}

var _ repository.RequestRepository = (*fakeRequestRepo)(nil)

func (r *fakeRequestRepo) Create(_ context.Context, pr *model.PurchaseRequest) error {
	for _, existing := range r.requests {
		if existing.OrderNumber == pr.OrderNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	pr.ID = r.nextID
	for i := range pr.Items {
		pr.Items[i].ID = uint(i + 1)
		pr.Items[i].RequestID = pr.ID
	}
	if err := pr.BeforeSave(nil); err != nil {
		return err
	}
	stored := clonePR(pr)
	r.requests[pr.ID] = &stored
	return nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uint) (*model.PurchaseRequest, error) {
	pr, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := clonePR(pr)
	if err := out.AfterFind(nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]model.PurchaseRequest, error) {
	var out []model.PurchaseRequest
	for _, pr := range r.requests {
		if filter.Status != "" && pr.Status != filter.Status {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, pr.Status) {
			continue
		}
		if filter.Department != "" && pr.Department != filter.Department {
			continue
		}
		if filter.CreatedBy != "" && pr.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.ProcurementStatus != "" && pr.ProcurementStatus != filter.ProcurementStatus {
			continue
		}
		out = append(out, clonePR(pr))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeRequestRepo) Update(_ context.Context, pr *model.PurchaseRequest) error {
	if _, ok := r.requests[pr.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := pr.BeforeSave(nil); err != nil {
		return err
	}
	stored := clonePR(pr)
	r.requests[pr.ID] = &stored
	return nil
}

func (r *fakeRequestRepo) Stats(_ context.Context) (repository.RequestStats, error) {
	if r.statsErr != nil {
		return repository.RequestStats{}, r.statsErr
	}
	stats := repository.RequestStats{}
	for _, pr := range r.requests {
		stats.Total++
		switch pr.Status {
		case workflow.StatusApproved, workflow.StatusCompleted:
			stats.Approved++
		case workflow.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

func (r *fakeRequestRepo) FindItem(_ context.Context, requestID, itemID uint) (*model.PurchaseItem, error) {
	pr, ok := r.requests[requestID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for i := range pr.Items {
		if pr.Items[i].ID == itemID {
			item := pr.Items[i]
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) UpdateItem(_ context.Context, item *model.PurchaseItem) error {
	pr, ok := r.requests[item.RequestID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range pr.Items {
		if pr.Items[i].ID == item.ID {
			pr.Items[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) AddHistory(_ context.Context, entry *model.ApprovalHistory) error {
	entry.ID = uint(len(r.history) + 1)
	r.history = append(r.history, *entry)
	return nil
}

func (r *fakeRequestRepo) ListByHistoryAction(_ context.Context, username string, actions []string) ([]model.PurchaseRequest, error) {
	seen := map[uint]bool{}
	var out []model.PurchaseRequest
	for _, entry := range r.history {
		if entry.ActorUser != username || !containsString(actions, entry.Action) || seen[entry.RequestID] {
			continue
		}
		if pr, ok := r.requests[entry.RequestID]; ok {
			seen[entry.RequestID] = true
			out = append(out, clonePR(pr))
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) LatestHistory(_ context.Context, requestID uint, username string, actions []string) (*model.ApprovalHistory, error) {
	for i := len(r.history) - 1; i >= 0; i-- {
		entry := r.history[i]
		if entry.RequestID == requestID && entry.ActorUser == username && containsString(actions, entry.Action) {
			return &entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRequestRepo) DeleteAll(context.Context) error {
	r.requests = map[uint]*model.PurchaseRequest{}
	r.history = nil
	return nil
}

func (r *fakeRequestRepo) historyActions(requestID uint) []string {
	var actions []string
	for _, entry := range r.history {
		if entry.RequestID == requestID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}

func clonePR(pr *model.PurchaseRequest) model.PurchaseRequest {
	out := *pr
	out.Items = append([]model.PurchaseItem(nil), pr.Items...)
	return out
}

func containsStatus(list []workflow.Status, s workflow.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeUserRepo struct {
	users []*model.User
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetActiveByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil || !u.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FirstByRole(_ context.Context, role workflow.Role) (*model.User, error) {
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FirstManagerOfDepartment(_ context.Context, department string) (*model.User, error) {
	for _, u := range r.users {
		if u.Role == workflow.RoleManager && u.Department == department && u.IsActive {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UsernamesByRole(_ context.Context, role workflow.Role) ([]string, error) {
	var out []string
	for _, u := range r.users {
		if u.Role == role && u.IsActive {
			out = append(out, u.Username)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			r.users[i] = user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// fakeNotifier records notices instead of writing rows.
type fakeNotifier struct {
	notices []Notice
}

var _ NotificationService = (*fakeNotifier)(nil)

func (f *fakeNotifier) ListForUser(context.Context, string) ([]NotificationResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeNotifier) MarkRead(context.Context, string, uuid.UUID) error { return nil }

func (f *fakeNotifier) MarkAllRead(context.Context, string) error { return nil }

func (f *fakeNotifier) Notify(_ context.Context, notice Notice) error {
	f.notices = append(f.notices, notice)
	return nil
}

func (f *fakeNotifier) Watchers(_ context.Context, pr *model.PurchaseRequest) []string {
	return []string{pr.CreatedBy}
}

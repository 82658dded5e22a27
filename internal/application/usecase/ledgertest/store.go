// Package ledgertest provides an in-memory ledger implementing the adapter
// interfaces, with all-or-nothing transactions, for use case tests.
package ledgertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// Store keeps every record in maps guarded by a mutex.
// Entities are copied on the way in and out so callers never alias stored state.
type Store struct {
	mu         sync.Mutex
	budgets    map[uuid.UUID]entity.Budget
	expenses   map[uuid.UUID]entity.Expense
	incomes    map[uuid.UUID]entity.Income
	categories map[uuid.UUID]entity.Category
	users      map[uuid.UUID]entity.User
	alerts     []adapter.BudgetAlertInput

	// BeforeSave runs before a budget compare-and-swap. Tests use it to
	// simulate a concurrent writer by calling BumpVersion.
	BeforeSave func(budgetID uuid.UUID)
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		budgets:    map[uuid.UUID]entity.Budget{},
		expenses:   map[uuid.UUID]entity.Expense{},
		incomes:    map[uuid.UUID]entity.Income{},
		categories: map[uuid.UUID]entity.Category{},
		users:      map[uuid.UUID]entity.User{},
	}
}

type snapshot struct {
	budgets  map[uuid.UUID]entity.Budget
	expenses map[uuid.UUID]entity.Expense
	incomes  map[uuid.UUID]entity.Income
	alerts   []adapter.BudgetAlertInput
}

// WithinTransaction restores every map when fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snap := snapshot{
		budgets:  copyMap(s.budgets),
		expenses: copyMap(s.expenses),
		incomes:  copyMap(s.incomes),
		alerts:   append([]adapter.BudgetAlertInput(nil), s.alerts...),
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.budgets = snap.budgets
		s.expenses = snap.expenses
		s.incomes = snap.incomes
		s.alerts = snap.alerts
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// BumpVersion advances a stored budget version as another writer would.
func (s *Store) BumpVersion(budgetID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.budgets[budgetID]; ok {
		b.Version++
		s.budgets[budgetID] = b
	}
}

// Budget returns a copy of a stored budget.
func (s *Store) Budget(id uuid.UUID) (entity.Budget, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	return b, ok
}

// Alerts returns the queued alerts.
func (s *Store) Alerts() []adapter.BudgetAlertInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.BudgetAlertInput(nil), s.alerts...)
}

// AddCategory seeds a category.
func (s *Store) AddCategory(c *entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = *c
}

// AddUser seeds a user.
func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// AddExpense seeds an expense without triggering any synchronization.
func (s *Store) AddExpense(e *entity.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses[e.ID] = *e
}

// AddBudget seeds a budget.
func (s *Store) AddBudget(b *entity.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = *b
}

// QueueBudgetAlert implements adapter.AlertNotifier.
func (s *Store) QueueBudgetAlert(ctx context.Context, input adapter.BudgetAlertInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, input)
	return nil
}

// Budgets returns the store as an adapter.BudgetRepository.
func (s *Store) Budgets() adapter.BudgetRepository { return budgetRepo{s} }

// Expenses returns the store as an adapter.ExpenseRepository.
func (s *Store) Expenses() adapter.ExpenseRepository { return expenseRepo{s} }

// Incomes returns the store as an adapter.IncomeRepository.
func (s *Store) Incomes() adapter.IncomeRepository { return incomeRepo{s} }

// Categories returns the store as an adapter.CategoryRepository.
func (s *Store) Categories() adapter.CategoryRepository { return categoryRepo{s} }

// Users returns the store as an adapter.UserRepository.
func (s *Store) Users() adapter.UserRepository { return userRepo{s} }

type budgetRepo struct{ s *Store }

func (r budgetRepo) Create(ctx context.Context, budget *entity.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.budgets {
		if b.Active && b.Bucket().Equal(budget.Bucket()) {
			return domainerror.ErrBudgetAlreadyExists
		}
	}
	r.s.budgets[budget.ID] = *budget
	return nil
}

func (r budgetRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.budgets[id]
	if !ok {
		return nil, domainerror.ErrBudgetNotFound
	}
	return &b, nil
}

func (r budgetRepo) FindByBucket(ctx context.Context, bucket entity.BudgetBucket) (*entity.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.budgets {
		if b.Active && b.Bucket().Equal(bucket) {
			found := b
			return &found, nil
		}
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r budgetRepo) Save(ctx context.Context, budget *entity.Budget, expectedVersion int64) error {
	if r.s.BeforeSave != nil {
		r.s.BeforeSave(budget.ID)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.budgets[budget.ID]
	if !ok || stored.Version != expectedVersion {
		return domainerror.ErrBudgetVersionConflict
	}
	budget.Version = expectedVersion + 1
	r.s.budgets[budget.ID] = *budget
	return nil
}

func (r budgetRepo) List(ctx context.Context, filter adapter.BudgetFilter) ([]*entity.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Budget
	for _, b := range r.s.budgets {
		if b.UserID != filter.UserID || (!b.Active && !filter.IncludeInactive) {
			continue
		}
		if filter.Year != nil && b.Year != *filter.Year {
			continue
		}
		if filter.Month != nil && b.Month != *filter.Month {
			continue
		}
		found := b
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out, nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(ctx context.Context, expense *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.expenses[expense.ID] = *expense
	return nil
}

func (r expenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok || e.DeletedAt != nil {
		return nil, domainerror.ErrExpenseNotFound
	}
	return &e, nil
}

func (r expenseRepo) Update(ctx context.Context, expense *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[expense.ID]; !ok {
		return domainerror.ErrExpenseNotFound
	}
	r.s.expenses[expense.ID] = *expense
	return nil
}

func (r expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.expenses[id]
	if !ok || e.DeletedAt != nil {
		return domainerror.ErrExpenseNotFound
	}
	now := time.Now().UTC()
	e.DeletedAt = &now
	r.s.expenses[id] = e
	return nil
}

func (r expenseRepo) List(ctx context.Context, filter adapter.LedgerFilter, pagination adapter.Pagination) (*entity.ExpenseListResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Expense
	for _, e := range r.s.expenses {
		if e.UserID != filter.UserID || e.DeletedAt != nil || !matchesFilter(filter, e.CategoryID, e.ExpenseDate) {
			continue
		}
		found := e
		all = append(all, &found)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ExpenseDate.After(all[j].ExpenseDate) })
	page, total := paginate(all, pagination)
	return &entity.ExpenseListResult{Expenses: page, Total: total, Page: pagination.Page, Limit: pagination.Limit}, nil
}

type incomeRepo struct{ s *Store }

func (r incomeRepo) Create(ctx context.Context, income *entity.Income) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.incomes[income.ID] = *income
	return nil
}

func (r incomeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Income, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incomes[id]
	if !ok || i.DeletedAt != nil {
		return nil, domainerror.ErrIncomeNotFound
	}
	return &i, nil
}

func (r incomeRepo) Update(ctx context.Context, income *entity.Income) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.incomes[income.ID]; !ok {
		return domainerror.ErrIncomeNotFound
	}
	r.s.incomes[income.ID] = *income
	return nil
}

func (r incomeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.incomes[id]
	if !ok || i.DeletedAt != nil {
		return domainerror.ErrIncomeNotFound
	}
	now := time.Now().UTC()
	i.DeletedAt = &now
	r.s.incomes[id] = i
	return nil
}

func (r incomeRepo) List(ctx context.Context, filter adapter.LedgerFilter, pagination adapter.Pagination) (*entity.IncomeListResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.Income
	for _, i := range r.s.incomes {
		if i.UserID != filter.UserID || i.DeletedAt != nil || !matchesFilter(filter, i.CategoryID, i.IncomeDate) {
			continue
		}
		found := i
		all = append(all, &found)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].IncomeDate.After(all[b].IncomeDate) })
	page, total := paginate(all, pagination)
	return &entity.IncomeListResult{Incomes: page, Total: total, Page: pagination.Page, Limit: pagination.Limit}, nil
}

func matchesFilter(filter adapter.LedgerFilter, categoryID *uuid.UUID, date time.Time) bool {
	if filter.StartDate != nil && date.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && date.After(*filter.EndDate) {
		return false
	}
	if filter.CategoryID != nil && (categoryID == nil || *categoryID != *filter.CategoryID) {
		return false
	}
	return true
}

func paginate[T any](all []T, p adapter.Pagination) ([]T, int64) {
	total := int64(len(all))
	if p.Limit <= 0 {
		return all, total
	}
	start := (p.Page - 1) * p.Limit
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return []T{}, total
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) EnsureGlobal(ctx context.Context, categories []*entity.Category) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[string]bool{}
	for _, c := range r.s.categories {
		if c.IsGlobal() {
			seen[c.GlobalKey()] = true
		}
	}
	inserted := 0
	for _, c := range categories {
		if seen[c.GlobalKey()] {
			continue
		}
		r.s.categories[c.ID] = *c
		seen[c.GlobalKey()] = true
		inserted++
	}
	return inserted, nil
}

func (r categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return &c, nil
}

type userRepo struct{ s *Store }

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	return &u, nil
}

// SumExpenseForBucket implements adapter.LedgerStore.
func (s *Store) SumExpenseForBucket(ctx context.Context, bucket entity.BudgetBucket) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, e := range s.expenses {
		if e.DeletedAt == nil && e.Bucket().Equal(bucket) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// SumAndCountExpense implements adapter.LedgerStore.
func (s *Store) SumAndCountExpense(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary entity.AmountSummary
	for _, e := range s.expenses {
		if e.UserID == userID && e.DeletedAt == nil && inWindow(e.ExpenseDate, start, end) && sameCategory(categoryID, e.CategoryID) {
			summary.Total = summary.Total.Add(e.Amount)
			summary.Count++
		}
	}
	return summary, nil
}

// SumAndCountIncome implements adapter.LedgerStore.
func (s *Store) SumAndCountIncome(ctx context.Context, userID uuid.UUID, categoryID *uuid.UUID, start, end time.Time) (entity.AmountSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary entity.AmountSummary
	for _, i := range s.incomes {
		if i.UserID == userID && i.DeletedAt == nil && inWindow(i.IncomeDate, start, end) && sameCategory(categoryID, i.CategoryID) {
			summary.Total = summary.Total.Add(i.Amount)
			summary.Count++
		}
	}
	return summary, nil
}

// GroupExpenseByCategory implements adapter.LedgerStore.
func (s *Store) GroupExpenseByCategory(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]entity.CategoryAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := map[uuid.UUID]*entity.CategoryAggregate{}
	for _, e := range s.expenses {
		if e.UserID != userID || e.DeletedAt != nil || !inWindow(e.ExpenseDate, start, end) {
			continue
		}
		key := uuid.Nil
		if e.CategoryID != nil {
			key = *e.CategoryID
		}
		g, ok := groups[key]
		if !ok {
			g = &entity.CategoryAggregate{CategoryID: e.CategoryID}
			if c, found := s.categories[key]; found {
				g.Name, g.Icon, g.Color = c.Name, c.Icon, c.Color
			}
			groups[key] = g
		}
		g.Total = g.Total.Add(e.Amount)
		g.Count++
	}
	out := make([]entity.CategoryAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out, nil
}

// GroupExpenseByPeriod implements adapter.LedgerStore.
func (s *Store) GroupExpenseByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []periodRow
	for _, e := range s.expenses {
		if e.UserID == userID && e.DeletedAt == nil && inWindow(e.ExpenseDate, start, end) {
			rows = append(rows, periodRow{e.ExpenseDate, e.Amount})
		}
	}
	return groupByPeriod(rows, granularity), nil
}

// GroupIncomeByPeriod implements adapter.LedgerStore.
func (s *Store) GroupIncomeByPeriod(ctx context.Context, userID uuid.UUID, granularity entity.Granularity, start, end time.Time) ([]entity.PeriodAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []periodRow
	for _, i := range s.incomes {
		if i.UserID == userID && i.DeletedAt == nil && inWindow(i.IncomeDate, start, end) {
			rows = append(rows, periodRow{i.IncomeDate, i.Amount})
		}
	}
	return groupByPeriod(rows, granularity), nil
}

type periodRow struct {
	date   time.Time
	amount decimal.Decimal
}

func groupByPeriod(rows []periodRow, granularity entity.Granularity) []entity.PeriodAggregate {
	groups := map[[2]int]*entity.PeriodAggregate{}
	for _, r := range rows {
		key := [2]int{r.date.Year(), 0}
		switch granularity {
		case entity.GranularityMonthly:
			key[1] = int(r.date.Month())
		case entity.GranularityQuarterly:
			key[1] = (int(r.date.Month())-1)/3 + 1
		}
		g, ok := groups[key]
		if !ok {
			g = &entity.PeriodAggregate{Year: key[0], Period: key[1]}
			groups[key] = g
		}
		g.Total = g.Total.Add(r.amount)
		g.Count++
	}
	out := make([]entity.PeriodAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Period < out[j].Period
	})
	return out
}

func inWindow(date, start, end time.Time) bool {
	day := entity.TruncateToDay(date)
	return !day.Before(entity.TruncateToDay(start)) && !day.After(entity.TruncateToDay(end))
}

func sameCategory(filter, actual *uuid.UUID) bool {
	return filter == nil || (actual != nil && *actual == *filter)
}

var (
	_ adapter.Transactor    = (*Store)(nil)
	_ adapter.LedgerStore   = (*Store)(nil)
	_ adapter.AlertNotifier = (*Store)(nil)
)

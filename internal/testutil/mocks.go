package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	ByName     map[string]*domain.Category
	InUse      map[int32]bool
	NextID     int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		ByName:     make(map[string]*domain.Category),
		InUse:      make(map[int32]bool),
		NextID:     1,
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = m.NextID
	m.NextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	m.ByName[category.Name] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id int32) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetByName retrieves a category by name
func (m *MockCategoryRepository) GetByName(name string) (*domain.Category, error) {
	if category, ok := m.ByName[name]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll returns all categories ordered by name
func (m *MockCategoryRepository) GetAll() ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.Categories))
	for _, category := range m.Categories {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(id int32, name, color, icon string, categoryType domain.CategoryType) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	delete(m.ByName, category.Name)
	category.Name = name
	category.Color = color
	category.Icon = icon
	category.Type = categoryType
	category.UpdatedAt = time.Now()
	m.ByName[name] = category
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(id int32) error {
	category, ok := m.Categories[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}
	delete(m.ByName, category.Name)
	delete(m.Categories, id)
	return nil
}

// HasTransactions reports whether the category is marked as referenced
func (m *MockCategoryRepository) HasTransactions(id int32) (bool, error) {
	return m.InUse[id], nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID >= m.NextID {
		m.NextID = category.ID + 1
	}
	m.Categories[category.ID] = category
	m.ByName[category.Name] = category
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// CreateBatch creates multiple transactions
func (m *MockTransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	for _, transaction := range transactions {
		if _, err := m.Create(transaction); err != nil {
			return 0, err
		}
	}
	return len(transactions), nil
}

// GetByID retrieves a transaction owned by the user
func (m *MockTransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByUser returns a filtered, paginated page of the user's transactions
func (m *MockTransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	all := m.sortedByUser(userID)

	filtered := make([]*domain.Transaction, 0, len(all))
	for _, transaction := range all {
		if filters.CategoryID != nil && transaction.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.StartDate != nil && transaction.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && !transaction.Date.Before(*filters.EndDate) {
			continue
		}
		filtered = append(filtered, transaction)
	}

	// Newest first, like the real repository
	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].Date.After(filtered[j].Date)
		}
		return filtered[i].ID > filtered[j].ID
	})

	totalItems := int64(len(filtered))
	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	start := int((filters.Page - 1) * filters.PageSize)
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + int(filters.PageSize)
	if end > len(filtered) {
		end = len(filtered)
	}

	return &domain.PaginatedTransactions{
		Data:       filtered[start:end],
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByUserAndDateRange returns transactions in [start, end), oldest first
func (m *MockTransactionRepository) GetByUserAndDateRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, transaction := range m.sortedByUser(userID) {
		if transaction.Date.Before(start) || !transaction.Date.Before(end) {
			continue
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}

// GetAllByUser returns the user's full transaction history, oldest first
func (m *MockTransactionRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	return m.sortedByUser(userID), nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.CreatedAt = existing.CreatedAt
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete removes a transaction owned by the user
func (m *MockTransactionRepository) Delete(userID uuid.UUID, id int32) error {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
	}
	if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

func (m *MockTransactionRepository) sortedByUser(userID uuid.UUID) []*domain.Transaction {
	var transactions []*domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			transactions = append(transactions, transaction)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		return transactions[i].ID < transactions[j].ID
	})
	return transactions
}

// budgetKey identifies one (user, category, month, year) budget
type budgetKey struct {
	userID     uuid.UUID
	categoryID int32
	year       int
	month      int
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[budgetKey]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[budgetKey]*domain.Budget),
		NextID:  1,
	}
}

// Upsert creates or replaces a budget
func (m *MockBudgetRepository) Upsert(budget *domain.Budget) (*domain.Budget, error) {
	key := budgetKey{budget.UserID, budget.CategoryID, budget.Year, budget.Month}
	if existing, ok := m.Budgets[key]; ok {
		existing.Amount = budget.Amount
		existing.UpdatedAt = time.Now()
		return existing, nil
	}
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[key] = budget
	return budget, nil
}

// UpsertBatch creates or replaces multiple budgets
func (m *MockBudgetRepository) UpsertBatch(budgets []*domain.Budget) error {
	for _, budget := range budgets {
		if _, err := m.Upsert(budget); err != nil {
			return err
		}
	}
	return nil
}

// GetByMonth retrieves all budgets for a month
func (m *MockBudgetRepository) GetByMonth(userID uuid.UUID, year, month int) ([]*domain.Budget, error) {
	var budgets []*domain.Budget
	for key, budget := range m.Budgets {
		if key.userID == userID && key.year == year && key.month == month {
			budgets = append(budgets, budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].CategoryID < budgets[j].CategoryID })
	return budgets, nil
}

// GetByCategory retrieves one category's budget for a month
func (m *MockBudgetRepository) GetByCategory(userID uuid.UUID, categoryID int32, year, month int) (*domain.Budget, error) {
	if budget, ok := m.Budgets[budgetKey{userID, categoryID, year, month}]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Delete removes a budget
func (m *MockBudgetRepository) Delete(userID uuid.UUID, categoryID int32, year, month int) error {
	key := budgetKey{userID, categoryID, year, month}
	if _, ok := m.Budgets[key]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets, key)
	return nil
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(budget *domain.Budget) {
	if budget.ID >= m.NextID {
		m.NextID = budget.ID + 1
	}
	m.Budgets[budgetKey{budget.UserID, budget.CategoryID, budget.Year, budget.Month}] = budget
}

// MockStatementArchive records archived statements in memory
type MockStatementArchive struct {
	Stored map[string][]byte
	Err    error
}

// NewMockStatementArchive creates a new MockStatementArchive
func NewMockStatementArchive() *MockStatementArchive {
	return &MockStatementArchive{Stored: make(map[string][]byte)}
}

// Store records the statement under a deterministic key
func (m *MockStatementArchive) Store(ctx context.Context, userID, batchID uuid.UUID, filename string, data []byte) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	key := "statements/" + userID.String() + "/" + batchID.String() + "/" + filename
	m.Stored[key] = data
	return key, nil
}

// PublishedEvent captures one event sent through the MockPublisher
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// MockPublisher collects published events for assertions
type MockPublisher struct {
	Events []PublishedEvent
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish implements websocket.EventPublisher
func (m *MockPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

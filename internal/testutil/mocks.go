package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/EduFin215/Finomik-CRM-sub001/internal/domain"
	"github.com/EduFin215/Finomik-CRM-sub001/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Date builds a UTC-midnight date (helper for tests)
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr builds a pointer to a UTC-midnight date (helper for tests)
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// Dec parses a decimal literal and panics on malformed input (helper for tests)
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DecPtr parses a decimal literal into a pointer (helper for tests)
func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

// MockLedgerRepository is a mock implementation of domain.LedgerRepository
type MockLedgerRepository struct {
	Income   map[uuid.UUID][]domain.SettledIncome
	Expenses map[uuid.UUID][]domain.SettledExpense
	// Err, when set, is returned by every read to simulate an unavailable store
	Err   error
	Calls int
}

// NewMockLedgerRepository creates a new MockLedgerRepository
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		Income:   make(map[uuid.UUID][]domain.SettledIncome),
		Expenses: make(map[uuid.UUID][]domain.SettledExpense),
	}
}

// ListSettledIncome returns income events dated on or before upTo
func (m *MockLedgerRepository) ListSettledIncome(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]domain.SettledIncome, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var result []domain.SettledIncome
	for _, e := range m.Income[orgID] {
		if !e.SettledDate.After(upTo) {
			result = append(result, e)
		}
	}
	return result, nil
}

// ListSettledExpenses returns expense events dated on or before upTo
func (m *MockLedgerRepository) ListSettledExpenses(ctx context.Context, orgID uuid.UUID, upTo time.Time) ([]domain.SettledExpense, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var result []domain.SettledExpense
	for _, e := range m.Expenses[orgID] {
		if !e.SettledDate.After(upTo) {
			result = append(result, e)
		}
	}
	return result, nil
}

// AddIncome adds a settled income event (helper for tests)
func (m *MockLedgerRepository) AddIncome(orgID uuid.UUID, amount string, settled time.Time) {
	m.Income[orgID] = append(m.Income[orgID], domain.SettledIncome{Amount: Dec(amount), SettledDate: settled})
}

// AddExpense adds a settled expense event (helper for tests)
func (m *MockLedgerRepository) AddExpense(orgID uuid.UUID, amount string, settled time.Time) {
	m.Expenses[orgID] = append(m.Expenses[orgID], domain.SettledExpense{Amount: Dec(amount), SettledDate: settled})
}

// MockObligationRepository is a mock implementation of domain.ObligationRepository
type MockObligationRepository struct {
	Invoices          map[uuid.UUID][]domain.PendingInvoice
	Expenses          map[uuid.UUID][]domain.PendingExpense
	Contracts         map[uuid.UUID][]domain.RecurringContract
	RecurringExpenses map[uuid.UUID][]domain.RecurringExpense
	// Err, when set, is returned by every read to simulate an unavailable store
	Err error
}

// NewMockObligationRepository creates a new MockObligationRepository
func NewMockObligationRepository() *MockObligationRepository {
	return &MockObligationRepository{
		Invoices:          make(map[uuid.UUID][]domain.PendingInvoice),
		Expenses:          make(map[uuid.UUID][]domain.PendingExpense),
		Contracts:         make(map[uuid.UUID][]domain.RecurringContract),
		RecurringExpenses: make(map[uuid.UUID][]domain.RecurringExpense),
	}
}

// ListPendingInvoices returns the organization's pending invoices
func (m *MockObligationRepository) ListPendingInvoices(ctx context.Context, orgID uuid.UUID) ([]domain.PendingInvoice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Invoices[orgID], nil
}

// ListPendingExpenses returns the organization's pending expenses
func (m *MockObligationRepository) ListPendingExpenses(ctx context.Context, orgID uuid.UUID) ([]domain.PendingExpense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Expenses[orgID], nil
}

// ListActiveContracts returns the organization's active contracts
func (m *MockObligationRepository) ListActiveContracts(ctx context.Context, orgID uuid.UUID) ([]domain.RecurringContract, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Contracts[orgID], nil
}

// ListRecurringExpenses returns the organization's recurring expenses
func (m *MockObligationRepository) ListRecurringExpenses(ctx context.Context, orgID uuid.UUID) ([]domain.RecurringExpense, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.RecurringExpenses[orgID], nil
}

// AddInvoice adds a pending invoice (helper for tests)
func (m *MockObligationRepository) AddInvoice(orgID uuid.UUID, amount string, due *time.Time) {
	m.Invoices[orgID] = append(m.Invoices[orgID], domain.PendingInvoice{
		Amount:  Dec(amount),
		DueDate: due,
		Status:  domain.InvoiceStatusSent,
	})
}

// AddExpense adds a pending expense (helper for tests)
func (m *MockObligationRepository) AddExpense(orgID uuid.UUID, amount string, due *time.Time) {
	m.Expenses[orgID] = append(m.Expenses[orgID], domain.PendingExpense{Amount: Dec(amount), DueDate: due})
}

// AddContract adds an active contract (helper for tests)
func (m *MockObligationRepository) AddContract(orgID uuid.UUID, amount string, frequency domain.ContractFrequency) {
	m.Contracts[orgID] = append(m.Contracts[orgID], domain.RecurringContract{Amount: Dec(amount), Frequency: frequency})
}

// AddRecurringExpense adds an active recurring expense (helper for tests)
func (m *MockObligationRepository) AddRecurringExpense(orgID uuid.UUID, amount string, anchor *time.Time) {
	m.RecurringExpenses[orgID] = append(m.RecurringExpenses[orgID], domain.RecurringExpense{
		Amount:        Dec(amount),
		AnchorDueDate: anchor,
		Active:        true,
	})
}

// MockBaselineRepository is a mock implementation of domain.BaselineRepository
type MockBaselineRepository struct {
	Baselines map[uuid.UUID]decimal.Decimal
	// Err, when set, is returned by every call to simulate an unavailable store
	Err error
}

// NewMockBaselineRepository creates a new MockBaselineRepository
func NewMockBaselineRepository() *MockBaselineRepository {
	return &MockBaselineRepository{
		Baselines: make(map[uuid.UUID]decimal.Decimal),
	}
}

// GetCashBaseline returns the stored baseline or nil
func (m *MockBaselineRepository) GetCashBaseline(ctx context.Context, orgID uuid.UUID) (*decimal.Decimal, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if baseline, ok := m.Baselines[orgID]; ok {
		return &baseline, nil
	}
	return nil, nil
}

// SetCashBaseline stores a baseline
func (m *MockBaselineRepository) SetCashBaseline(ctx context.Context, orgID uuid.UUID, amount decimal.Decimal) error {
	if m.Err != nil {
		return m.Err
	}
	m.Baselines[orgID] = amount
	return nil
}

// ClearCashBaseline removes a baseline
func (m *MockBaselineRepository) ClearCashBaseline(ctx context.Context, orgID uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	delete(m.Baselines, orgID)
	return nil
}

// SetBaseline stores a baseline (helper for tests)
func (m *MockBaselineRepository) SetBaseline(orgID uuid.UUID, amount string) {
	m.Baselines[orgID] = Dec(amount)
}

// MockOrganizationRepository is a mock implementation of domain.OrganizationRepository
type MockOrganizationRepository struct {
	Organizations map[uuid.UUID]*domain.Organization
	ByAuth0ID     map[string]*domain.Organization
	ListAllFn     func(ctx context.Context) ([]*domain.Organization, error)
}

// NewMockOrganizationRepository creates a new MockOrganizationRepository
func NewMockOrganizationRepository() *MockOrganizationRepository {
	return &MockOrganizationRepository{
		Organizations: make(map[uuid.UUID]*domain.Organization),
		ByAuth0ID:     make(map[string]*domain.Organization),
	}
}

// GetByID retrieves an organization by ID
func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	if org, ok := m.Organizations[id]; ok {
		return org, nil
	}
	return nil, domain.ErrOrganizationNotFound
}

// GetByMemberAuth0ID retrieves the organization a member belongs to
func (m *MockOrganizationRepository) GetByMemberAuth0ID(ctx context.Context, auth0ID string) (*domain.Organization, error) {
	if org, ok := m.ByAuth0ID[auth0ID]; ok {
		return org, nil
	}
	return nil, domain.ErrOrganizationNotFound
}

// ListAll returns every organization
func (m *MockOrganizationRepository) ListAll(ctx context.Context) ([]*domain.Organization, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	orgs := make([]*domain.Organization, 0, len(m.Organizations))
	for _, org := range m.Organizations {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

// AddOrganization adds an organization, optionally with a member (helper for tests)
func (m *MockOrganizationRepository) AddOrganization(org *domain.Organization, memberAuth0IDs ...string) {
	m.Organizations[org.ID] = org
	for _, id := range memberAuth0IDs {
		m.ByAuth0ID[id] = org
	}
}

// MockReportStore is an in-memory report store
type MockReportStore struct {
	Objects     map[string][]byte
	ContentType map[string]string
	UploadErr   error
	PresignErr  error
	Deleted     []string
}

// NewMockReportStore creates a new MockReportStore
func NewMockReportStore() *MockReportStore {
	return &MockReportStore{
		Objects:     make(map[string][]byte),
		ContentType: make(map[string]string),
	}
}

// Upload stores the object in memory
func (m *MockReportStore) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, data); err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf.Bytes()
	m.ContentType[objectPath] = contentType
	return objectPath, nil
}

// Delete removes an object
func (m *MockReportStore) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	m.Deleted = append(m.Deleted, objectPath)
	return nil
}

// GeneratePresignedURL returns a fake signed link
func (m *MockReportStore) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if m.PresignErr != nil {
		return "", m.PresignErr
	}
	return fmt.Sprintf("https://reports.test/%s?expires=%d", objectPath, int(expiry.Seconds())), nil
}

// PublishedEvent is an event captured by MockEventPublisher
type PublishedEvent struct {
	OrgID uuid.UUID
	Event websocket.Event
}

// MockEventPublisher records every published event
type MockEventPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(orgID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{OrgID: orgID, Event: event})
}

// Events returns a copy of the recorded events
func (m *MockEventPublisher) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedEvent(nil), m.events...)
}

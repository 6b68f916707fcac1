package commands_test

import (
	"context"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Find(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierNotifier struct{ mock.Mock }

func (m *MockCourierNotifier) LiveCourierIDs() []kernel.UUID {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]kernel.UUID)
}

func (m *MockCourierNotifier) SendTo(ctx context.Context, courierID kernel.UUID, msg dispatch.Message) (bool, error) {
	args := m.Called(ctx, courierID, msg)
	return args.Bool(0), args.Error(1)
}

// uowFixture wires a factory that hands out the same unit of work and repository.
type uowFixture struct {
	repo     *MockOrderRepository
	uow      *MockOrderUoW
	factory  *MockOrderUoWFactory
	notifier *MockCourierNotifier
}

func newUoWFixture() *uowFixture {
	f := &uowFixture{
		repo:     new(MockOrderRepository),
		uow:      new(MockOrderUoW),
		factory:  new(MockOrderUoWFactory),
		notifier: new(MockCourierNotifier),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("OrderRepository").Return(f.repo)
	return f
}

// expectTransactions allows any number of transactions to begin, commit and roll back.
// Every transaction begins and rolls back; skipped assignments never commit, so tests
// check Commit calls themselves.
func (f *uowFixture) expectTransactions(ctx context.Context) {
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Commit", ctx).Return(nil).Maybe()
	f.uow.On("Rollback", ctx).Return(nil)
}

func (f *uowFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.factory.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func restore(t *testing.T, status order.Status, courierID *kernel.UUID) *order.Order {
	t.Helper()

	o, err := order.RestoreOrder(kernel.NewUUID(), status, courierID, "")
	require.NoError(t, err)
	return o
}

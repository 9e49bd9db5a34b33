package http_test

import (
	"context"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/model/user"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockCancelOrderHandler struct{ mock.Mock }

func (m *MockCancelOrderHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockRegisterUserHandler struct{ mock.Mock }

func (m *MockRegisterUserHandler) Handle(ctx context.Context, cmd commands.RegisterUserCommand) (*user.User, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockListOrdersHandler struct{ mock.Mock }

func (m *MockListOrdersHandler) Handle(
	ctx context.Context,
	query queries.ListOrdersQuery,
) ([]queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.ListOrdersQueryResponse), args.Error(1)
}

type MockAuthenticateUserHandler struct{ mock.Mock }

func (m *MockAuthenticateUserHandler) Handle(
	ctx context.Context,
	query queries.AuthenticateUserQuery,
) (queries.AuthenticateUserQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.AuthenticateUserQueryResponse), args.Error(1)
}

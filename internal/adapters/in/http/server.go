package http

import (
	"context"
	"log/slog"
	"net/http"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/model/user"
	"orders/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type CreateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type CancelOrderHandler interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
}

type RegisterUserHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterUserCommand) (*user.User, error)
}

type ListOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
}

type AuthenticateUserHandler interface {
	Handle(ctx context.Context, query queries.AuthenticateUserQuery) (queries.AuthenticateUserQueryResponse, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler  CreateOrderHandler
	cancelOrderHandler  CancelOrderHandler
	registerUserHandler RegisterUserHandler

	// Query handlers
	listOrdersHandler       ListOrdersHandler
	authenticateUserHandler AuthenticateUserHandler

	logger *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	cancelOrderHandler CancelOrderHandler,
	registerUserHandler RegisterUserHandler,
	listOrdersHandler ListOrdersHandler,
	authenticateUserHandler AuthenticateUserHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		cancelOrderHandler:      cancelOrderHandler,
		registerUserHandler:     registerUserHandler,
		listOrdersHandler:       listOrdersHandler,
		authenticateUserHandler: authenticateUserHandler,
		logger:                  logger.With("component", "http_server"),
	}
}

// RegisterUser handles POST /api/v1/auth/register - signs a new user up.
func (s *Server) RegisterUser(ctx echo.Context) error {
	var req servers.RegisterUserJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return s.respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterUserCommand(kernel.NewUUID(), req.Name, string(req.Email), req.Password)
	if err != nil {
		return s.respondError(ctx, err)
	}

	registered, err := s.registerUserHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.User{
		Id:        registered.ID().Bytes(),
		Name:      registered.Name(),
		Email:     openapi_types.Email(registered.Email().String()),
		CreatedAt: registered.CreatedAt(),
	})
}

// LoginUser handles POST /api/v1/auth/login - exchanges credentials for a token.
func (s *Server) LoginUser(ctx echo.Context) error {
	var req servers.LoginUserJSONRequestBody
	if err := ctx.Bind(&req); err != nil {
		return s.respondBadRequest(ctx, "Invalid request body")
	}

	query, err := queries.NewAuthenticateUserQuery(string(req.Email), req.Password)
	if err != nil {
		return s.respondError(ctx, err)
	}

	resp, err := s.authenticateUserHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Token{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
	})
}

// CreateOrder handles POST /api/v1/orders - places an order for the caller.
func (s *Server) CreateOrder(ctx echo.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	var req servers.CreateOrderJSONRequestBody
	if err = ctx.Bind(&req); err != nil {
		return s.respondBadRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), ownerID, req.ProductName, req.Amount)
	if err != nil {
		return s.respondError(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrder(created))
}

// ListOrders handles GET /api/v1/orders - returns the caller's orders, newest first.
func (s *Server) ListOrders(ctx echo.Context) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(ownerID)
	if err != nil {
		return s.respondError(ctx, err)
	}

	result, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.respondError(ctx, err)
	}

	response := servers.OrderList{
		Orders: make([]servers.Order, len(result)),
		Total:  len(result),
	}
	for i, o := range result {
		response.Orders[i] = servers.Order{
			Id:          o.ID.Bytes(),
			UserId:      o.OwnerID.Bytes(),
			ProductName: o.ProductName,
			Amount:      o.Amount.Float64(),
			Status:      servers.OrderStatus(o.Status.String()),
			CreatedAt:   o.CreatedAt,
			UpdatedAt:   o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CancelOrder handles PATCH /api/v1/orders/{order_id}/cancel - cancels a pending order.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	ownerID, err := callerID(ctx)
	if err != nil {
		return s.respondError(ctx, err)
	}

	id, err := kernel.UUIDFromString(orderID.String())
	if err != nil {
		return s.respondError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id, ownerID)
	if err != nil {
		return s.respondError(ctx, err)
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrder(cancelled))
}

func toOrder(o *order.Order) servers.Order {
	return servers.Order{
		Id:          o.ID().Bytes(),
		UserId:      o.OwnerID().Bytes(),
		ProductName: o.ProductName(),
		Amount:      o.Amount().Float64(),
		Status:      servers.OrderStatus(o.Status().String()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

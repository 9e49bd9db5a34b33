package http_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orders/api"
	httpin "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/security"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/domain/model/user"
	"orders/internal/generated/servers"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/metrics"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type testAPI struct {
	echo    *echo.Echo
	tokens  *security.JWTTokens
	metrics *metrics.Metrics

	createOrder  *MockCreateOrderHandler
	cancelOrder  *MockCancelOrderHandler
	registerUser *MockRegisterUserHandler
	listOrders   *MockListOrdersHandler
	authenticate *MockAuthenticateUserHandler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMock()
	clk.Set(testNow)

	tokens, err := security.NewJWTTokens("test-secret", 15*time.Minute, clk)
	require.NoError(t, err)

	a := &testAPI{
		tokens:       tokens,
		metrics:      metrics.New(),
		createOrder:  new(MockCreateOrderHandler),
		cancelOrder:  new(MockCancelOrderHandler),
		registerUser: new(MockRegisterUserHandler),
		listOrders:   new(MockListOrdersHandler),
		authenticate: new(MockAuthenticateUserHandler),
	}

	doc, err := api.Load()
	require.NoError(t, err)
	validator, err := httpin.NewRequestValidator(doc, tokens)
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = httpin.NewErrorHandler(logger)
	e.Use(httpin.RequestMetrics(a.metrics.Server))
	e.Use(validator.Middleware())
	e.GET("/health", func(c echo.Context) error {
		return c.String(nethttp.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(a.metrics.Handler()))
	servers.RegisterHandlers(e, httpin.NewServer(
		a.createOrder, a.cancelOrder, a.registerUser, a.listOrders, a.authenticate, logger,
	))
	a.echo = e

	return a
}

func (a *testAPI) bearer(t *testing.T, userID kernel.UUID) string {
	t.Helper()
	token, err := a.tokens.Issue(userID)
	require.NoError(t, err)
	return "Bearer " + token.Value
}

func (a *testAPI) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newOrder(t *testing.T, ownerID kernel.UUID, status order.Status) *order.Order {
	t.Helper()
	o, err := order.RestoreOrder(kernel.NewUUID(), ownerID, "Laptop", kernel.MustAmount("999.99"),
		status, testNow, testNow, order.InitialVersion)
	require.NoError(t, err)
	return o
}

func TestHealth_BypassesValidation(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodGet, "/health", "", "")

	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestUnknownRoute_ReturnsErrorBody(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodGet, "/api/v1/nowhere", "", "")

	require.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, int32(nethttp.StatusNotFound), decodeError(t, rec).Code)
}

func TestWrongMethod_MethodNotAllowed(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodDelete, "/api/v1/orders", "", "")

	require.Equal(t, nethttp.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, int32(nethttp.StatusMethodNotAllowed), decodeError(t, rec).Code)
	a.listOrders.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestMetricsEndpoint_BypassesValidation(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodGet, "/metrics", "", "")

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# TYPE")
}

func TestRegisterUser_Created(t *testing.T) {
	a := newTestAPI(t)
	email, err := kernel.NewEmail("alice@example.com")
	require.NoError(t, err)
	registered, err := user.NewUser(kernel.NewUUID(), "Alice", email, "hash", testNow)
	require.NoError(t, err)

	a.registerUser.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RegisterUserCommand) bool {
		return cmd.Name() == "Alice" && cmd.Email().String() == "alice@example.com" && cmd.Password() == "secret"
	})).Return(registered, nil).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret"}`, "")

	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	var body servers.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, registered.ID().Bytes(), body.Id)
	assert.Equal(t, "Alice", body.Name)
	assert.EqualValues(t, "alice@example.com", body.Email)
	a.registerUser.AssertExpectations(t)
}

func TestRegisterUser_ShortPassword_BadRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"123"}`, "")

	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	a.registerUser.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRegisterUser_DuplicateEmail_Conflict(t *testing.T) {
	a := newTestAPI(t)
	a.registerUser.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewConflictError("user", "alice@example.com")).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret"}`, "")

	require.Equal(t, nethttp.StatusConflict, rec.Code)
	assert.Equal(t, int32(nethttp.StatusConflict), decodeError(t, rec).Code)
}

func TestRegisterUser_MissingField_RejectedByOpenAPI(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/register", `{"name":"Alice","password":"secret"}`, "")

	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	a.registerUser.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestLoginUser_OK(t *testing.T) {
	a := newTestAPI(t)
	a.authenticate.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.AuthenticateUserQuery) bool {
		return q.Email().String() == "alice@example.com" && q.Password() == "secret"
	})).Return(queries.AuthenticateUserQueryResponse{
		UserID:      kernel.NewUUID(),
		AccessToken: "signed",
		TokenType:   queries.TokenTypeBearer,
		ExpiresIn:   15,
	}, nil).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/login", `{"email":"alice@example.com","password":"secret"}`, "")

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var body servers.Token
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, servers.Token{AccessToken: "signed", TokenType: "bearer", ExpiresIn: 15}, body)
}

func TestLoginUser_InvalidCredentials_Unauthorized(t *testing.T) {
	a := newTestAPI(t)
	a.authenticate.On("Handle", mock.Anything, mock.Anything).
		Return(queries.AuthenticateUserQueryResponse{}, queries.ErrInvalidCredentials).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/auth/login", `{"email":"alice@example.com","password":"nope"}`, "")

	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "incorrect email or password", decodeError(t, rec).Message)
}

func TestCreateOrder_RequiresToken(t *testing.T) {
	a := newTestAPI(t)

	for name, authorization := range map[string]string{
		"missing":   "",
		"malformed": "Token abc",
		"forged":    "Bearer not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			rec := a.do(nethttp.MethodPost, "/api/v1/orders", `{"product_name":"Laptop","amount":999.99}`, authorization)

			require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Equal(t, int32(nethttp.StatusUnauthorized), decodeError(t, rec).Code)
		})
	}
	a.createOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder_Created(t *testing.T) {
	a := newTestAPI(t)
	owner := kernel.NewUUID()
	created := newOrder(t, owner, order.Pending)

	a.createOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		return cmd.OwnerID() == owner &&
			cmd.ProductName() == "Laptop" &&
			cmd.Amount().String() == "999.99"
	})).Return(created, nil).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/orders", `{"product_name":"Laptop","amount":999.99}`, a.bearer(t, owner))

	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	var body servers.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, created.ID().Bytes(), body.Id)
	assert.Equal(t, owner.Bytes(), body.UserId)
	assert.Equal(t, servers.OrderStatusPending, body.Status)
	assert.InDelta(t, 999.99, body.Amount, 1e-9)
	assert.True(t, testNow.Equal(body.CreatedAt))
	a.createOrder.AssertExpectations(t)
}

func TestCreateOrder_NegativeAmount_BadRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodPost, "/api/v1/orders", `{"product_name":"Laptop","amount":-5}`, a.bearer(t, kernel.NewUUID()))

	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	a.createOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateOrder_PersistenceFailure_InternalError(t *testing.T) {
	a := newTestAPI(t)
	a.createOrder.On("Handle", mock.Anything, mock.Anything).
		Return(nil, errs.NewPersistenceError("order.add", errors.New("connection reset"))).Once()

	rec := a.do(nethttp.MethodPost, "/api/v1/orders", `{"product_name":"Laptop","amount":1}`, a.bearer(t, kernel.NewUUID()))

	require.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeError(t, rec).Message)
}

func TestListOrders_OK(t *testing.T) {
	a := newTestAPI(t)
	owner := kernel.NewUUID()
	rows := []queries.ListOrdersQueryResponse{
		{
			ID: kernel.NewUUID(), OwnerID: owner, ProductName: "Laptop", Amount: kernel.MustAmount("999.99"),
			Status: order.Processing, CreatedAt: testNow.Add(time.Hour), UpdatedAt: testNow.Add(time.Hour),
		},
		{
			ID: kernel.NewUUID(), OwnerID: owner, ProductName: "Book", Amount: kernel.MustAmount("10"),
			Status: order.Cancelled, CreatedAt: testNow, UpdatedAt: testNow,
		},
	}
	a.listOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
		return q.OwnerID() == owner
	})).Return(rows, nil).Once()

	rec := a.do(nethttp.MethodGet, "/api/v1/orders", "", a.bearer(t, owner))

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var body servers.OrderList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 2, body.Total)
	assert.Equal(t, rows[0].ID.Bytes(), body.Orders[0].Id)
	assert.Equal(t, servers.OrderStatusProcessing, body.Orders[0].Status)
	assert.Equal(t, servers.OrderStatusCancelled, body.Orders[1].Status)
}

func TestListOrders_Empty_ReturnsEmptyArray(t *testing.T) {
	a := newTestAPI(t)
	a.listOrders.On("Handle", mock.Anything, mock.Anything).
		Return([]queries.ListOrdersQueryResponse{}, nil).Once()

	rec := a.do(nethttp.MethodGet, "/api/v1/orders", "", a.bearer(t, kernel.NewUUID()))

	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"orders":[],"total":0}`, rec.Body.String())
}

func TestCancelOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.NewObjectNotFoundError("order", "x"), nethttp.StatusNotFound},
		{"forbidden", errs.NewForbiddenError("order", "x"), nethttp.StatusForbidden},
		{"invalid transition", errs.NewInvalidTransitionError(order.Processing, order.Cancelled), nethttp.StatusBadRequest},
		{"conflict", errs.NewConflictError("order", "x"), nethttp.StatusConflict},
		{"persistence", errs.NewPersistenceError("order.update", errors.New("boom")), nethttp.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAPI(t)
			a.cancelOrder.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := a.do(nethttp.MethodPatch, "/api/v1/orders/"+kernel.NewUUID().String()+"/cancel", "",
				a.bearer(t, kernel.NewUUID()))

			require.Equal(t, tt.want, rec.Code)
			assert.Equal(t, int32(tt.want), decodeError(t, rec).Code)
		})
	}
}

func TestCancelOrder_OK(t *testing.T) {
	a := newTestAPI(t)
	owner := kernel.NewUUID()
	cancelled := newOrder(t, owner, order.Cancelled)

	a.cancelOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
		return cmd.OrderID() == cancelled.ID() && cmd.OwnerID() == owner
	})).Return(cancelled, nil).Once()

	rec := a.do(nethttp.MethodPatch, "/api/v1/orders/"+cancelled.ID().String()+"/cancel", "", a.bearer(t, owner))

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var body servers.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, servers.OrderStatusCancelled, body.Status)
	a.cancelOrder.AssertExpectations(t)
}

func TestCancelOrder_MalformedID_BadRequest(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(nethttp.MethodPatch, "/api/v1/orders/not-a-uuid/cancel", "", a.bearer(t, kernel.NewUUID()))

	require.Equal(t, nethttp.StatusBadRequest, rec.Code)
	a.cancelOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRequestMetrics_CountsByRoute(t *testing.T) {
	a := newTestAPI(t)

	a.do(nethttp.MethodGet, "/health", "", "")
	a.do(nethttp.MethodGet, "/api/v1/orders", "", "")

	assert.InDelta(t, 1, testutil.ToFloat64(a.metrics.Server.Requests.WithLabelValues("GET", "/health", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.metrics.Server.Requests.WithLabelValues("GET", "/api/v1/orders", "401")), 0)
}

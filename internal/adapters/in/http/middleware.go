package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/ports"
	"orders/internal/generated/servers"
	"orders/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

const (
	bearerSecurityScheme = "bearerAuth"
	callerIDKey          = "orders.caller_id"
)

type echoContextKey struct{}

// RequestValidator checks requests against the OpenAPI document and
// authenticates operations guarded by bearerAuth. The authenticated user id is
// stored on the echo context for the handlers.
type RequestValidator struct {
	router routers.Router
	parser ports.TokenParser
}

func NewRequestValidator(doc *openapi3.T, parser ports.TokenParser) (*RequestValidator, error) {
	// Paths carry the full /api/v1 prefix, so the host is never matched.
	doc.Servers = nil

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return &RequestValidator{router: router, parser: parser}, nil
}

// Middleware validates matched requests. Requests outside the document
// (health, metrics, swagger) pass through untouched.
func (v *RequestValidator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := v.router.FindRoute(req)
			if isUndocumentedRoute(err) {
				return next(ctx)
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: v.authenticate,
				},
			}

			validationCtx := context.WithValue(req.Context(), echoContextKey{}, ctx)
			if err = openapi3filter.ValidateRequest(validationCtx, input); err != nil {
				var securityErr *openapi3filter.SecurityRequirementsError
				if errors.As(err, &securityErr) {
					ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
					return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
				}

				var requestErr *openapi3filter.RequestError
				if errors.As(err, &requestErr) {
					return echo.NewHTTPError(http.StatusBadRequest, requestErr.Error())
				}
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			return next(ctx)
		}
	}
}

// isUndocumentedRoute reports whether the router found no operation for the
// request. The router returns fresh *routers.RouteError values, so they are
// matched by reason rather than identity.
func isUndocumentedRoute(err error) bool {
	var routeErr *routers.RouteError
	if !errors.As(err, &routeErr) {
		return false
	}
	return routeErr.Reason == routers.ErrPathNotFound.Error() ||
		routeErr.Reason == routers.ErrMethodNotAllowed.Error()
}

func (v *RequestValidator) authenticate(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
	if input.SecuritySchemeName != bearerSecurityScheme {
		return fmt.Errorf("security scheme %q is not supported", input.SecuritySchemeName)
	}

	echoCtx, ok := ctx.Value(echoContextKey{}).(echo.Context)
	if !ok {
		return errors.New("echo context is missing")
	}

	token, ok := bearerToken(input.RequestValidationInput.Request.Header.Get(echo.HeaderAuthorization))
	if !ok {
		return errNotAuthenticated
	}

	userID, err := v.parser.Parse(token)
	if err != nil {
		return err
	}

	echoCtx.Set(callerIDKey, userID)
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// callerID returns the user authenticated by RequestValidator. Protected
// operations are marked by the generated wrapper through BearerAuthScopes.
func callerID(ctx echo.Context) (kernel.UUID, error) {
	if ctx.Get(servers.BearerAuthScopes) == nil {
		return kernel.UUID{}, errNotAuthenticated
	}
	id, ok := ctx.Get(callerIDKey).(kernel.UUID)
	if !ok {
		return kernel.UUID{}, errNotAuthenticated
	}
	return id, nil
}

// RequestMetrics records every request on m, labelled by route template.
func RequestMetrics(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			started := time.Now()

			if err := next(ctx); err != nil {
				ctx.Error(err)
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(ctx.Request().Method, route, ctx.Response().Status, time.Since(started))
			return nil
		}
	}
}

package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/jayu6624/PRODIGY-FS-02/internal/config"
	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/handler"
	"github.com/jayu6624/PRODIGY-FS-02/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	session *middleware.Session,
	authHandler *handler.AuthHandler,
	employeeHandler *handler.EmployeeHandler,
) {
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewErrorHandler(logger, cfg.IsDevelopment())

	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireSession := session.Middleware()

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)
	user.GET("/profile", authHandler.Profile, requireSession)
	user.POST("/logout", authHandler.Logout, requireSession)

	employee := api.Group("/employee", requireSession)
	employee.POST("", employeeHandler.CreateEmployee)
	employee.GET("", employeeHandler.ListEmployees)
	employee.GET("/:id", employeeHandler.GetEmployee)
	employee.PUT("/:id", employeeHandler.UpdateEmployee)
	employee.DELETE("/:id", employeeHandler.DeleteEmployee)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}

// NewErrorHandler renders every error as an ErrorResponse. Server errors are logged with
// their cause, and the cause is echoed back as detail only when exposeDetail is set.
func NewErrorHandler(logger *zap.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := renderError(err)

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(cause),
			)
			if exposeDetail && cause != nil {
				body.Detail = cause.Error()
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Warn("write error response", zap.Error(writeErr))
		}
	}
}

func renderError(err error) (int, apperrors.ErrorResponse, error) {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		mapped := apperrors.MapErrorToHTTP(err)
		return mapped.StatusCode, mapped.ToErrorResponse(), err
	}

	cause := he.Internal
	if cause == nil {
		cause = he
	}

	switch msg := he.Message.(type) {
	case apperrors.ErrorResponse:
		return he.Code, msg, cause
	case string:
		return he.Code, apperrors.ErrorResponse{Error: msg, Code: statusCode(he.Code)}, cause
	default:
		return he.Code, apperrors.ErrorResponse{Error: http.StatusText(he.Code), Code: statusCode(he.Code)}, cause
	}
}

// statusCode turns an HTTP status into an error code, e.g. 405 -> METHOD_NOT_ALLOWED.
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

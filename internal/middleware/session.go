package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jayu6624/PRODIGY-FS-02/internal/auth"
	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/model"
)

const (
	// TokenCookieName is the cookie that carries the session token for browser clients.
	TokenCookieName = "token"

	claimsContextKey   = "session.claims"
	identityContextKey = "session.identity"
)

// IdentityResolver loads the user a token was issued to.
type IdentityResolver interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// RevocationChecker reports whether a token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) bool
}

// Session verifies the bearer token on each request and attaches the caller identity.
type Session struct {
	jwtService *auth.JWTService
	users      IdentityResolver
	revocation RevocationChecker
}

// NewSession creates the session verifier.
func NewSession(jwtService *auth.JWTService, users IdentityResolver, revocation RevocationChecker) *Session {
	return &Session{
		jwtService: jwtService,
		users:      users,
		revocation: revocation,
	}
}

// Middleware rejects requests without a valid token with 401. The token is read from
// "Authorization: Bearer <token>" first, then from the token cookie.
func (s *Session) Middleware() echo.MiddlewareFunc {
	verifyToken := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + TokenCookieName,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return s.jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthenticated()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verifyToken(s.resolveIdentity(next))
	}
}

func (s *Session) resolveIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return unauthenticated()
		}

		ctx := c.Request().Context()
		if s.revocation != nil && s.revocation.IsRevoked(ctx, claims.ID) {
			return unauthenticated()
		}

		user, err := s.users.GetUser(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return unauthenticated()
			}
			httpErr := apperrors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
		}

		c.Set(identityContextKey, user)
		return next(c)
	}
}

func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated).ToErrorResponse())
}

// ClaimsFrom returns the verified token claims of the current request.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// IdentityFrom returns the authenticated caller of the current request.
func IdentityFrom(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(identityContextKey).(*model.User)
	return user, ok && user != nil
}

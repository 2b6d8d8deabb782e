package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/jayu6624/PRODIGY-FS-02/internal/errors"
	"github.com/jayu6624/PRODIGY-FS-02/internal/middleware"
)

// ProfileResponse is the public view of the authenticated user.
type ProfileResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstname"`
	LastName    string    `json:"lastname"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phonenumber,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Profile godoc
// @Summary Current user profile
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /user/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	user, ok := middleware.IdentityFrom(c)
	if !ok {
		return httpError(apperrors.ErrUnauthenticated)
	}

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:          user.ID.String(),
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		CreatedAt:   user.CreatedAt,
	})
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the current token and clears the session cookie.
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return httpError(apperrors.ErrUnauthenticated)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.authService.Logout(c.Request().Context(), claims.ID, expiresAt); err != nil {
		return httpError(err)
	}

	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

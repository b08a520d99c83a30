package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
)

// TokenVerifier turns a raw bearer token into a verified Identity.
type TokenVerifier interface {
	Verify(raw string) (auth.Identity, error)
}

// AuthMiddleware verifies the bearer token and attaches the resulting
// Identity to the request context. A missing token aborts with 401, an
// invalid one with 403; the handler chain is never reached in either case.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := auth.BearerToken(c.GetHeader("Authorization"))

		identity, err := verifier.Verify(raw)
		if err != nil {
			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				appErr = apperrors.Wrap(apperrors.ErrInvalidToken, err)
			}
			abortWithError(c, appErr)
			return
		}

		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), identity))
		c.Next()
	}
}

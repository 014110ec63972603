package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routekit/internal/core/domain"
	"github.com/samirrijal/routekit/internal/core/usecases"
	"github.com/samirrijal/routekit/internal/pkg/validation"
)

const userKey ctxKey = "user"

// UserFromCtx returns the authenticated user stored by AuthMiddleware.
func UserFromCtx(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey).(*domain.User)
	return u, ok && u != nil
}

// AuthMiddleware resolves the bearer token and rejects the request with 401
// when it is missing or invalid.
func AuthMiddleware(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return errUnauthorized(c, "missing bearer token")
		}

		user, err := deps.Auth.Authenticate(c.UserContext(), token)
		if err != nil {
			LoggerFromCtx(c.UserContext()).Debug("authentication failed", "error", err)
			return errUnauthorized(c, "invalid or expired token")
		}

		c.Locals("user", user)
		c.SetUserContext(context.WithValue(c.UserContext(), userKey, user))
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

// SignInHandler exchanges e-mail and password for an access token.
func SignInHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if verr := validation.ValidateStruct(req); verr != nil {
			return errValidation(c, verr)
		}

		token, user, err := deps.Auth.SignIn(c.UserContext(), req.Email, req.Password)
		if errors.Is(err, usecases.ErrInvalidCredentials) {
			return errUnauthorized(c, err.Error())
		}
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("sign in failed", "error", err)
			return errInternal(c, "failed to sign in")
		}

		return c.JSON(signInResponse{AccessToken: token, TokenType: "Bearer", User: user})
	}
}

// CurrentUserHandler returns the authenticated user.
func CurrentUserHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(currentUser(c))
	}
}

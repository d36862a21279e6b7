package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/casework-service/internal/domain"
	"github.com/spec-kit/casework-service/internal/repository"
	apperrors "github.com/spec-kit/casework-service/pkg/util"
)

const claimsKey = "auth_claims"
const clientKey = "auth_client"

// Middleware validates bearer tokens and attaches the verified identity to
// the request. It deliberately does NOT load staff records; that is the
// authorization engine's job.
type Middleware struct {
	tokens  *TokenManager
	clients repository.ClientRepository
}

// NewMiddleware constructs the middleware.
func NewMiddleware(tokens *TokenManager, clients repository.ClientRepository) *Middleware {
	return &Middleware{tokens: tokens, clients: clients}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// RequireClient ensures the caller is an active client and loads the record.
func (m *Middleware) RequireClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok || claims.Subject != domain.SubjectTypeClient {
			return apperrors.NewForbidden("client credentials required")
		}
		client, err := m.clients.GetByID(c.UserContext(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewUnauthorized("client not found")
			}
			return apperrors.MapError(err)
		}
		if client.Status != domain.ClientStatusActive {
			return apperrors.NewForbidden("client suspended")
		}
		c.Locals(clientKey, client)
		return c.Next()
	}
}

// ClaimsFromContext retrieves the verified token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// ClientFromContext retrieves the loaded client record.
func ClientFromContext(c *fiber.Ctx) (*domain.Client, bool) {
	val := c.Locals(clientKey)
	if val == nil {
		return nil, false
	}
	client, ok := val.(*domain.Client)
	return client, ok
}

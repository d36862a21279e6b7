package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound signals an expired, consumed, or unknown token.
var ErrResetTokenNotFound = errors.New("reset token not found")

// PasswordResetToken is what a reset token resolves to.
type PasswordResetToken struct {
	SubjectType string    `json:"subject_type"`
	SubjectID   string    `json:"subject_id"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PasswordResetRepository stores one-shot reset tokens. Backed by Redis so
// expiry is handled by the store itself.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *PasswordResetToken, ttl time.Duration) error
	Consume(ctx context.Context, token string) (*PasswordResetToken, error)
}

type passwordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository instantiates the repository.
func NewPasswordResetRepository(client *redis.Client) PasswordResetRepository {
	return &passwordResetRepository{client: client}
}

func resetKey(token string) string {
	return "pwreset:" + token
}

func (r *passwordResetRepository) Create(ctx context.Context, token *PasswordResetToken, ttl time.Duration) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resetKey(token.Token), payload, ttl).Err()
}

// Consume atomically fetches and deletes the token so it can be used once.
func (r *passwordResetRepository) Consume(ctx context.Context, token string) (*PasswordResetToken, error) {
	payload, err := r.client.GetDel(ctx, resetKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	var parsed PasswordResetToken
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

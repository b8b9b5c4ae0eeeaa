package hiyauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CreateUserParams carries the inputs for local account creation.
type CreateUserParams struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8"`
}

// CreateUser validates params, hashes the password, and persists a new user
// through the directory. Syntactically invalid emails fail with
// [ErrInvalidEmail]; other field failures with [ErrInvalidAccountParams];
// duplicates surface the directory's [ErrUserExists].
func (e *Engine) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	if err := e.verify.StructCtx(ctx, params); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, field := range fields {
				if field.Field() == "Email" {
					return nil, ErrInvalidEmail
				}
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidAccountParams, fields[0].Field())
		}
		return nil, err
	}

	hash, err := e.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccountParams, err)
	}

	user := &User{
		ID:           e.pairs.Next(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
	}

	if err := e.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("user create: %w", err)
	}

	e.metrics.Inc(MetricAccountCreated)
	e.emitAudit(AuditAccountCreated, user.ID, "")

	return user, nil
}

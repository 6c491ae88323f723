package user

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	List(ctx context.Context) ([]*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

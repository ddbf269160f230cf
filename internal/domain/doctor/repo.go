package doctor

import (
	"context"
)

type Repository interface {
	List(ctx context.Context, token string) ([]Doctor, error)
	GetByUsername(ctx context.Context, token, username string) (*Doctor, error)
	Register(ctx context.Context, d *Doctor) error
}

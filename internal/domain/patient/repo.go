package patient

import (
	"context"
)

type Repository interface {
	GetByUsername(ctx context.Context, token, username string) (*Patient, error)
	Register(ctx context.Context, p *Patient) error
}

package patient

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("patient not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, p *Patient) error {
	if err := s.repo.Register(ctx, p); err != nil {
		return fmt.Errorf("register patient %q: %w", p.Username, err)
	}
	return nil
}

func (s *Service) GetByUsername(ctx context.Context, token, username string) (*Patient, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByUsername(ctx, token, username)
}

// PatientID resolves a username to its patient id. Used at login to fill the
// patient id cookie.
func (s *Service) PatientID(ctx context.Context, token, username string) (int, error) {
	p, err := s.GetByUsername(ctx, token, username)
	if err != nil {
		return 0, err
	}
	if p.PatientID <= 0 {
		return 0, fmt.Errorf("patient %q has no id: %w", username, ErrNotFound)
	}
	return p.PatientID, nil
}

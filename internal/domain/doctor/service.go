package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ehr/appointment-ui/internal/domain/appointment"
)

var ErrNotFound = errors.New("doctor not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Register(ctx context.Context, d *Doctor) error {
	if err := s.repo.Register(ctx, d); err != nil {
		return fmt.Errorf("register doctor %q: %w", d.Username, err)
	}
	return nil
}

func (s *Service) GetByUsername(ctx context.Context, token, username string) (*Doctor, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByUsername(ctx, token, username)
}

func (s *Service) List(ctx context.Context, token string) ([]Doctor, error) {
	return s.repo.List(ctx, token)
}

// DoctorOptions lists every doctor for the appointment form.
func (s *Service) DoctorOptions(ctx context.Context, token string) ([]appointment.DoctorOption, error) {
	doctors, err := s.repo.List(ctx, token)
	if err != nil {
		return nil, err
	}
	opts := make([]appointment.DoctorOption, 0, len(doctors))
	for i := range doctors {
		opts = append(opts, doctors[i].Option())
	}
	return opts, nil
}

var _ appointment.DoctorLister = (*Service)(nil)

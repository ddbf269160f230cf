package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
	"github.com/ehr/appointment-ui/internal/platform/auth"
	"github.com/ehr/appointment-ui/internal/platform/session"
)

var (
	ErrBadCredentials = errors.New("incorrect credentials")
	ErrEmptyToken     = errors.New("login returned an empty token")
	ErrUnknownRole    = errors.New("token carries no known role")
)

// LoginResult is a successful login: the session to store and where the
// user goes next.
type LoginResult struct {
	Session session.Session
	Role    auth.Role
}

type Service struct {
	repo     Repository
	patients PatientLookup
	claims   *auth.ClaimsReader
}

func NewService(repo Repository, patients PatientLookup, claims *auth.ClaimsReader) *Service {
	return &Service{repo: repo, patients: patients, claims: claims}
}

// Login exchanges credentials for a token and builds the session. Patients
// also get their patient id; a failed lookup is logged and does not fail
// the login.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	log := zerolog.Ctx(ctx)

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		if apiclient.IsStatus(err) {
			return nil, fmt.Errorf("%w: %v", ErrBadCredentials, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp == nil || resp.Token == "" {
		return nil, ErrEmptyToken
	}

	role, ok := s.claims.DecodeRole(resp.Token)
	if !ok || !role.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	res := &LoginResult{
		Session: session.Session{Token: resp.Token, Username: req.Username},
		Role:    role,
	}

	if role == auth.RolePatient && s.patients != nil {
		id, err := s.patients.PatientID(ctx, resp.Token, req.Username)
		if err != nil {
			log.Warn().Err(err).Str("username", req.Username).Msg("patient id lookup failed")
		} else {
			res.Session.PatientID = strconv.Itoa(id)
		}
	}
	return res, nil
}

// Destination is the landing screen for the token's role.
func (s *Service) Destination(token string) (string, bool) {
	role, ok := s.claims.DecodeRole(token)
	dest := auth.RouteForRole(role)
	return dest, ok && role.Known()
}

package account

import (
	"context"
)

type Repository interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
}

// PatientLookup resolves the patient id of a username.
type PatientLookup interface {
	PatientID(ctx context.Context, token, username string) (int, error)
}

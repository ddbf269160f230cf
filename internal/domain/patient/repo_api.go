package patient

import (
	"context"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
)

type patientRepoAPI struct {
	client *apiclient.Client
}

func NewRepo(client *apiclient.Client) Repository {
	return &patientRepoAPI{client: client}
}

func (r *patientRepoAPI) GetByUsername(ctx context.Context, token, username string) (*Patient, error) {
	var out *Patient
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetPatientByUsername", username), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *patientRepoAPI) Register(ctx context.Context, p *Patient) error {
	return r.client.Post(ctx, "", apiclient.Path("api", "PatientRegister"), p, nil)
}

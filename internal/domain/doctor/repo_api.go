package doctor

import (
	"context"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
)

type doctorRepoAPI struct {
	client *apiclient.Client
}

func NewRepo(client *apiclient.Client) Repository {
	return &doctorRepoAPI{client: client}
}

func (r *doctorRepoAPI) List(ctx context.Context, token string) ([]Doctor, error) {
	var out []Doctor
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetAllDoctors"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *doctorRepoAPI) GetByUsername(ctx context.Context, token, username string) (*Doctor, error) {
	var out *Doctor
	if err := r.client.Get(ctx, token, apiclient.Path("api", "GetDoctorByUsername", username), &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

// Register is anonymous: the account does not exist yet.
func (r *doctorRepoAPI) Register(ctx context.Context, d *Doctor) error {
	return r.client.Post(ctx, "", apiclient.Path("api", "DoctorRegister"), d, nil)
}

package account

import (
	"context"

	"github.com/ehr/appointment-ui/internal/platform/apiclient"
)

type accountRepoAPI struct {
	client *apiclient.Client
}

func NewRepo(client *apiclient.Client) Repository {
	return &accountRepoAPI{client: client}
}

func (r *accountRepoAPI) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := r.client.Post(ctx, "", apiclient.Path("login"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

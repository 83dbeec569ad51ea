package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"gearbook/pkg/model"
)

// UsersClient talks to the external users service, the source of truth for
// actor identity and role membership.
type UsersClient struct {
	httpClient *HttpClient
}

func NewUsersClient(baseURL string) *UsersClient {
	return &UsersClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *UsersClient) GetByID(ctx context.Context, id string) (*model.User, error) {
	resp, err := c.httpClient.GET(ctx, "/api/v1/users/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("users service returned %d: %s", resp.StatusCode, GetErrorMessage(resp))
	}

	var payload struct {
		Data model.User `json:"data"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &payload.Data, nil
}

// HasApproverRole reports whether the actor holds any of the given roles.
func (c *UsersClient) HasApproverRole(ctx context.Context, actorID string, approverRoles []string) (bool, error) {
	user, err := c.GetByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	return user.HasAnyRole(approverRoles), nil
}

package adminsdk

import (
	"context"
	"net/http"
)

// Bootstrap creates the first admin. token must match the server's
// BOOTSTRAP_TOKEN.
func (c *Client) Bootstrap(ctx context.Context, token string, req BootstrapRequest) (*BootstrapResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/bootstrap", req, map[string]string{
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out BootstrapResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignIn exchanges email and password for an ID token. Only served by the
// local identity backend.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	res, err := c.SignInRaw(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(res.IDToken), nil
}

// SignInRaw is SignIn returning the full response.
func (c *Client) SignInRaw(ctx context.Context, email, password string) (*SignInResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/v1/auth/signin", SignInRequest{Email: email, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var out SignInResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

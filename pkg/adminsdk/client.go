package adminsdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to the admin service without a caller identity.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Session calls the admin callables as the holder of an ID token.
type Session struct {
	client  *Client
	idToken string
}

// NewSession wraps an existing ID token.
func (c *Client) NewSession(idToken string) *Session {
	return &Session{client: c, idToken: idToken}
}

// IDToken returns the token the session authenticates with.
func (s *Session) IDToken() string { return s.idToken }

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/emaquis/maquis/pkg/domain"
)

// Credentials is the gestionnaire login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

// LoginResult is a successful call to the gestionnaire auth endpoint.
// Token is empty when the remote rejected the credentials; that is a
// normal branch for the caller, not an error.
type LoginResult struct {
	Token string
	User  domain.User
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	domain.User
}

// LoginGestionnaire authenticates a gestionnaire. Transport and remote
// errors propagate as-is.
func (c *Client) LoginGestionnaire(ctx context.Context, creds Credentials) (*LoginResult, error) {
	var resp loginResponse
	if err := c.post(ctx, "/auth/gestionnaire/auth", creds, &resp); err != nil {
		return nil, fmt.Errorf("client.LoginGestionnaire: %w", err)
	}
	return &LoginResult{Token: resp.AccessToken, User: resp.User}, nil
}

// CompanySelect scopes a gestionnaire login to one company.
type CompanySelect struct {
	Credentials
	CompanyID string `json:"companyId"`
}

// SelectCompany exchanges credentials plus a company choice for a
// company-scoped session payload.
func (c *Client) SelectCompany(ctx context.Context, sel CompanySelect) (*LoginResult, error) {
	var resp loginResponse
	if err := c.post(ctx, "/auth/gestionnaire/select-company", sel, &resp); err != nil {
		return nil, fmt.Errorf("client.SelectCompany: %w", err)
	}
	return &LoginResult{Token: resp.AccessToken, User: resp.User}, nil
}

// Signup is the account creation payload.
type Signup struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
	Password  string `json:"password"`
	Country   string `json:"country"`
}

// RegisterError is the structured rejection the signup endpoint returns
// for expected validation failures (duplicate email, bad field).
type RegisterError struct {
	Message    string `json:"message"`
	Field      string `json:"field"`
	StatusCode int    `json:"statusCode"`
}

// RegisterResult is always a value, never an error: signup rejections
// are routine (email already used, invalid phone) and the UI needs the
// field-level detail, so they are a normal branch instead of an error
// path the caller has to unwrap.
type RegisterResult struct {
	OK   bool
	User domain.User   // filled on success
	Err  RegisterError // filled on failure
}

const registerFallbackMessage = "Une erreur s'est produite"

// Register creates a gestionnaire account. All failures, including
// transport ones, are folded into the result value.
func (c *Client) Register(ctx context.Context, payload Signup) RegisterResult {
	var created domain.User
	err := c.post(ctx, "/auth/signup", payload, &created)
	if err == nil {
		return RegisterResult{OK: true, User: created}
	}

	fail := RegisterError{Message: registerFallbackMessage, StatusCode: 400}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Message != "" {
			fail.Message = httpErr.Message
		}
		fail.Field = httpErr.Field
		fail.StatusCode = httpErr.StatusCode
	}
	return RegisterResult{Err: fail}
}

// GetProfile fetches the authenticated gestionnaire's profile. The
// bearer token is attached by the transport.
func (c *Client) GetProfile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/auth/profile", &u); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return &u, nil
}

// ProfileUpdate is the editable subset of the profile.
type ProfileUpdate struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	Country   string `json:"country,omitempty"`
}

// UpdateProfile saves profile changes and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if err := c.put(ctx, "/auth/profile", update, &u); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &u, nil
}

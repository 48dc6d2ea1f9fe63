package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ObtainToken exchanges credentials for a bearer token.
// The token endpoint is OAuth2-password shaped: form-encoded, not JSON.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/token", "",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, err
	}
	var out TokenResponse
	err = c.doJSON(req, &out)
	return out, err
}

type Registration struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.postJSON(ctx, "/api/auth/register", "", reg, nil)
}

// Me returns the profile fields for the token holder. The shape is not
// contractually fixed, so callers get the raw decoded object.
func (c *Client) Me(ctx context.Context, token string) (map[string]interface{}, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/me", token, "", nil)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LinkStudent associates an email and grade level with the account.
func (c *Client) LinkStudent(ctx context.Context, token, email string, classStd int) (map[string]interface{}, error) {
	body := map[string]interface{}{
		"email":     email,
		"class_std": classStd,
	}
	var out map[string]interface{}
	if err := c.postJSON(ctx, "/api/auth/students/link", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

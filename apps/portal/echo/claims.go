package echoportal

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/brainbuddy/portal/core"
)

// apiClaims is the subset of the API token's claims the portal cares about.
// The token is verified by the API on every call; here it is only decoded,
// never trusted for authorization.
type apiClaims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

func parseClaims(token string) (*apiClaims, error) {
	claims := new(apiClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *apiClaims) Expired() bool {
	return c.ExpiresAt != 0 && time.Unix(c.ExpiresAt, 0).Before(time.Now())
}

func (c *apiClaims) Identity() core.Identity {
	id := core.Identity{
		ID:       c.UserID,
		Username: c.Username,
		Email:    c.Email,
	}
	if id.ID == "" {
		id.ID = c.Subject
	}
	if id.Username == "" {
		id.Username = c.Subject
	}
	return id
}

// identity decodes the signed-in visitor from the auth cookie; zero value
// when logged out or undecodable.
func identity(ctx echo.Context) core.Identity {
	token := authToken(ctx)
	if token == "" {
		return core.Identity{}
	}
	claims, err := parseClaims(token)
	if err != nil {
		return core.Identity{}
	}
	return claims.Identity()
}

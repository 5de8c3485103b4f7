package session

import (
	"context"
	"errors"
	"fmt"

	"syndeck/internal/api"
	"syndeck/internal/models"
)

type Role int

const (
	RoleSuperAdmin Role = 1
	RoleAdmin      Role = 2
	RoleBroker     Role = 3
)

func (r Role) String() string {
	switch r {
	case RoleSuperAdmin:
		return "super-admin"
	case RoleAdmin:
		return "admin"
	case RoleBroker:
		return "broker"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// LoginRoute is where an unauthorized caller gets sent.
func (r Role) LoginRoute() string {
	if r == RoleBroker {
		return "/broker/login"
	}
	return "/admin/login"
}

// ErrNotAuthorized covers every guard failure uniformly: expired
// token, network error and wrong role all read the same to the caller.
var ErrNotAuthorized = errors.New("not authorized")

// Login exchanges credentials for a bearer token, stores it, and
// resolves the resulting identity.
func Login(ctx context.Context, c *api.Client, store *Store, email, password string) (models.Identity, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.Post(ctx, "/auth/login", body, &resp); err != nil {
		return models.Identity{}, err
	}
	if err := store.Set(resp.Token); err != nil {
		return models.Identity{}, err
	}
	var me models.Identity
	if err := c.Get(ctx, "/auth/me", nil, &me); err != nil {
		return models.Identity{}, err
	}
	return me, nil
}

// Guard resolves the current identity and checks it against the
// required role. Any failure clears the stored token and returns
// ErrNotAuthorized wrapping the role's login route; no cause is
// distinguished. Run once per page of work, before any data load.
func Guard(ctx context.Context, c *api.Client, store *Store, required Role) (models.Identity, error) {
	path := "/auth/me"
	if required == RoleBroker {
		path = "/broker/me"
	}
	var me models.Identity
	if err := c.Get(ctx, path, nil, &me); err != nil {
		_ = store.Clear()
		return models.Identity{}, fmt.Errorf("%w: redirect to %s", ErrNotAuthorized, required.LoginRoute())
	}
	if Role(me.RoleID) != required {
		_ = store.Clear()
		return models.Identity{}, fmt.Errorf("%w: redirect to %s", ErrNotAuthorized, required.LoginRoute())
	}
	return me, nil
}

// Register self-registers a broker account; the account lands in the
// pending queue until a super-admin approves it.
func Register(ctx context.Context, c *api.Client, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.Post(ctx, "/auth/register-boat-manager", body, nil)
}

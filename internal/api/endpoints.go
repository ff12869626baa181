package api

import (
	"context"
	"net/http"

	"github.com/lalith-99/pgdesk/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest.Email may hold either an email or a user name.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/user/register
func (c *Client) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	var user models.User
	err := c.do(ctx, call{
		resource: "user",
		op:       "register",
		fallback: "Failed to register user",
		empty:    "No user data received.",
	}, http.MethodPost, "/api/user/register", nil, req, &user)
	return user, err
}

// ListUsers handles GET /api/user. It is the one public listing and sends
// no token.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := c.do(ctx, call{
		resource: "user",
		op:       "list",
		fallback: "Failed to fetch users",
		empty:    "No users found.",
	}, http.MethodGet, "/api/user", nil, nil, &users)
	return users, err
}

// Login handles POST /api/user/login
func (c *Client) Login(ctx context.Context, req LoginRequest) (models.LoginResult, error) {
	var res models.LoginResult
	err := c.do(ctx, call{
		resource: "user",
		op:       "login",
		fallback: "Failed to log in",
		empty:    "No login data received.",
	}, http.MethodPost, "/api/user/login", nil, req, &res)
	return res, err
}

// resource groups the three authenticated endpoints of one collection.
type resource struct {
	name string
	path string

	listFallback   string
	createFallback string
	deleteFallback string
	listEmpty      string
	createEmpty    string
	// deleteEmpty, when set, rejects a delete answered with an empty body.
	deleteEmpty string
	noToken     string
}

var (
	buildingsResource = resource{
		name:           "building",
		path:           "/api/building",
		listFallback:   "Failed to fetch all buildings",
		createFallback: "Failed to add building",
		deleteFallback: "Failed to delete building.",
		listEmpty:      "No buildings data received.",
		createEmpty:    "No buildings data received.",
		deleteEmpty:    "Failed to delete building.",
		noToken:        "No auth token found. Please log in.",
	}
	roomsResource = resource{
		name:           "room",
		path:           "/api/room",
		listFallback:   "Failed to fetch rooms.",
		createFallback: "Failed to add room.",
		deleteFallback: "Failed to delete room.",
		listEmpty:      "No rooms data received.",
		createEmpty:    "No room data received.",
		noToken:        "No authentication token found.",
	}
	tenantsResource = resource{
		name:           "tenant",
		path:           "/api/tenant",
		listFallback:   "Failed to fetch tenants.",
		createFallback: "Failed to add tenant.",
		deleteFallback: "Failed to delete tenant.",
		listEmpty:      "No tenants data received.",
		createEmpty:    "No tenant data received.",
		noToken:        "No authentication token found.",
	}
)

func list[T any](ctx context.Context, c *Client, r resource) ([]T, error) {
	items := []T{}
	err := c.do(ctx, call{
		resource: r.name,
		op:       "list",
		fallback: r.listFallback,
		empty:    r.listEmpty,
		noToken:  r.noToken,
		auth:     true,
	}, http.MethodGet, r.path, nil, nil, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func create[T any](ctx context.Context, c *Client, r resource, rec T) (T, error) {
	var out T
	err := c.do(ctx, call{
		resource: r.name,
		op:       "create",
		fallback: r.createFallback,
		empty:    r.createEmpty,
		noToken:  r.noToken,
		auth:     true,
	}, http.MethodPost, r.path, nil, rec, &out)
	return out, err
}

func remove(ctx context.Context, c *Client, r resource, id string) error {
	return c.do(ctx, call{
		resource: r.name,
		op:       "delete",
		fallback: r.deleteFallback,
		empty:    r.deleteEmpty,
		noToken:  r.noToken,
		auth:     true,
	}, http.MethodDelete, r.path+"/{id}", map[string]string{"id": id}, nil, nil)
}

func (c *Client) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return list[models.Building](ctx, c, buildingsResource)
}

func (c *Client) CreateBuilding(ctx context.Context, b models.Building) (models.Building, error) {
	b.ID = ""
	return create(ctx, c, buildingsResource, b)
}

func (c *Client) DeleteBuilding(ctx context.Context, id string) error {
	return remove(ctx, c, buildingsResource, id)
}

func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	return list[models.Room](ctx, c, roomsResource)
}

func (c *Client) CreateRoom(ctx context.Context, r models.Room) (models.Room, error) {
	r.ID = ""
	return create(ctx, c, roomsResource, r)
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	return remove(ctx, c, roomsResource, id)
}

func (c *Client) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	return list[models.Tenant](ctx, c, tenantsResource)
}

func (c *Client) CreateTenant(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	t.ID = ""
	return create(ctx, c, tenantsResource, t)
}

func (c *Client) DeleteTenant(ctx context.Context, id string) error {
	return remove(ctx, c, tenantsResource, id)
}

package store

import (
	"context"
	"errors"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/models"
	"go.uber.org/zap"
)

// ErrUnsupported is returned for operations the API does not offer.
var ErrUnsupported = errors.New("operation not supported")

type (
	Users     = Collection[models.User]
	Buildings = Collection[models.Building]
	Rooms     = Collection[models.Room]
	Tenants   = Collection[models.Tenant]
)

// userRemote lists users without a token and creates them by registration.
type userRemote struct{ c *api.Client }

func (r userRemote) List(ctx context.Context) ([]models.User, error) { return r.c.ListUsers(ctx) }

func (r userRemote) Create(ctx context.Context, u models.User) (models.User, error) {
	return r.c.Register(ctx, api.RegisterRequest{Name: u.Name, Email: u.Email, Password: u.Password})
}

func (userRemote) Delete(context.Context, string) error { return ErrUnsupported }

type buildingRemote struct{ c *api.Client }

func (r buildingRemote) List(ctx context.Context) ([]models.Building, error) {
	return r.c.ListBuildings(ctx)
}

func (r buildingRemote) Create(ctx context.Context, b models.Building) (models.Building, error) {
	return r.c.CreateBuilding(ctx, b)
}

func (r buildingRemote) Delete(ctx context.Context, id string) error { return r.c.DeleteBuilding(ctx, id) }

type roomRemote struct{ c *api.Client }

func (r roomRemote) List(ctx context.Context) ([]models.Room, error) { return r.c.ListRooms(ctx) }

func (r roomRemote) Create(ctx context.Context, rm models.Room) (models.Room, error) {
	return r.c.CreateRoom(ctx, rm)
}

func (r roomRemote) Delete(ctx context.Context, id string) error { return r.c.DeleteRoom(ctx, id) }

type tenantRemote struct{ c *api.Client }

func (r tenantRemote) List(ctx context.Context) ([]models.Tenant, error) { return r.c.ListTenants(ctx) }

func (r tenantRemote) Create(ctx context.Context, t models.Tenant) (models.Tenant, error) {
	return r.c.CreateTenant(ctx, t)
}

func (r tenantRemote) Delete(ctx context.Context, id string) error { return r.c.DeleteTenant(ctx, id) }

func NewUsers(c *api.Client, logger *zap.Logger) *Users {
	return NewCollection[models.User]("users", userRemote{c}, logger)
}

func NewBuildings(c *api.Client, logger *zap.Logger) *Buildings {
	return NewCollection[models.Building]("buildings", buildingRemote{c}, logger)
}

func NewRooms(c *api.Client, logger *zap.Logger) *Rooms {
	return NewCollection[models.Room]("rooms", roomRemote{c}, logger)
}

func NewTenants(c *api.Client, logger *zap.Logger) *Tenants {
	return NewCollection[models.Tenant]("tenants", tenantRemote{c}, logger)
}

// Set bundles the four collections of one session.
type Set struct {
	Users     *Users
	Buildings *Buildings
	Rooms     *Rooms
	Tenants   *Tenants
}

func NewSet(c *api.Client, logger *zap.Logger) *Set {
	return &Set{
		Users:     NewUsers(c, logger),
		Buildings: NewBuildings(c, logger),
		Rooms:     NewRooms(c, logger),
		Tenants:   NewTenants(c, logger),
	}
}

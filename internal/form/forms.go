package form

import (
	"context"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/models"
	"github.com/lalith-99/pgdesk/internal/route"
	"github.com/lalith-99/pgdesk/internal/session"
	"github.com/lalith-99/pgdesk/internal/store"
	"github.com/lalith-99/pgdesk/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	BuildingAdded = "Building added successfully!"
	RoomAdded     = "Room added successfully!"
	TenantAdded   = "Tenant added successfully!"
	Registered    = "Registration successful! Please log in."
)

const (
	msgUnknownBuilding = "Selected building does not exist"
	msgUnknownRoom     = "Selected room does not exist"
	msgRoomMismatch    = "Selected room is not in the selected building"
)

// load fetches each collection concurrently. Every store records its own
// failure; the first error is returned once all have finished.
func load(ctx context.Context, fetches ...func(context.Context) error) error {
	var g errgroup.Group
	for _, fetch := range fetches {
		g.Go(func() error { return fetch(ctx) })
	}
	return g.Wait()
}

type BuildingForm struct {
	*Controller
	buildings *store.Buildings
	// Refetch reloads the whole collection after a create so server-side
	// fields are authoritative.
	Refetch bool
}

func NewBuildingForm(buildings *store.Buildings, logger *zap.Logger) *BuildingForm {
	return &BuildingForm{
		Controller: newController(validation.Building, nil, BuildingAdded, logger),
		buildings:  buildings,
		Refetch:    true,
	}
}

func (f *BuildingForm) Load(ctx context.Context) error {
	return f.buildings.FetchAll(ctx)
}

func (f *BuildingForm) Submit(ctx context.Context) error {
	return f.submit(ctx, nil, func(ctx context.Context, v validation.Fields) error {
		_, err := f.buildings.Create(ctx, models.Building{
			OwnerName: v[validation.FieldOwnerName],
			Name:      v[validation.FieldName],
			Address:   v[validation.FieldAddress],
			LandMark:  v[validation.FieldLandMark],
		})
		if err != nil {
			return err
		}
		if f.Refetch {
			// the create stands even if the reload fails; the store keeps
			// the error for the list view
			if err := f.buildings.FetchAll(ctx); err != nil {
				f.logger.Warn("refetch after create failed", zap.Error(err))
			}
		}
		return nil
	})
}

func (f *BuildingForm) Delete(ctx context.Context, id string) error {
	return f.buildings.Delete(ctx, id)
}

type RoomForm struct {
	*Controller
	buildings *store.Buildings
	rooms     *store.Rooms
	Refetch   bool
}

func NewRoomForm(buildings *store.Buildings, rooms *store.Rooms, logger *zap.Logger) *RoomForm {
	initial := validation.Fields{validation.FieldRoomType: string(models.RoomTypeNonAC)}
	return &RoomForm{
		Controller: newController(validation.Room, initial, RoomAdded, logger),
		buildings:  buildings,
		rooms:      rooms,
	}
}

func (f *RoomForm) Load(ctx context.Context) error {
	return load(ctx, f.buildings.FetchAll, f.rooms.FetchAll)
}

func (f *RoomForm) Submit(ctx context.Context) error {
	return f.submit(ctx, f.check, func(ctx context.Context, v validation.Fields) error {
		_, err := f.rooms.Create(ctx, models.Room{
			RoomName:         v[validation.FieldRoomName],
			RoomType:         models.RoomType(v[validation.FieldRoomType]),
			NumberSharedRoom: models.FlexString(v[validation.FieldNumberSharedRoom]),
			BuildingID:       v[validation.FieldBuildingID],
		})
		if err != nil {
			return err
		}
		if f.Refetch {
			if err := f.rooms.FetchAll(ctx); err != nil {
				f.logger.Warn("refetch after create failed", zap.Error(err))
			}
		}
		return nil
	})
}

func (f *RoomForm) check(v validation.Fields) validation.Errors {
	errs := validation.Errors{}
	if _, ok := f.buildings.Find(v[validation.FieldBuildingID]); !ok {
		errs[validation.FieldBuildingID] = msgUnknownBuilding
	}
	return errs
}

func (f *RoomForm) Delete(ctx context.Context, id string) error {
	return f.rooms.Delete(ctx, id)
}

type TenantForm struct {
	*Controller
	buildings *store.Buildings
	rooms     *store.Rooms
	tenants   *store.Tenants
	Refetch   bool
}

func NewTenantForm(buildings *store.Buildings, rooms *store.Rooms, tenants *store.Tenants, logger *zap.Logger) *TenantForm {
	f := &TenantForm{
		Controller: newController(validation.Tenant, nil, TenantAdded, logger),
		buildings:  buildings,
		rooms:      rooms,
		tenants:    tenants,
	}
	f.hook = cascadeRoom
	return f
}

// cascadeRoom drops the chosen room when the building changes.
func cascadeRoom(field, old string, fields validation.Fields, errs validation.Errors) {
	if field != validation.FieldBuildingID || fields[field] == old {
		return
	}
	fields[validation.FieldRoomID] = ""
	delete(errs, validation.FieldRoomID)
}

func (f *TenantForm) Load(ctx context.Context) error {
	return load(ctx, f.buildings.FetchAll, f.rooms.FetchAll, f.tenants.FetchAll)
}

// RoomOptions lists the loaded rooms of the selected building. Nothing is
// offered until a building is chosen.
func (f *TenantForm) RoomOptions() []models.Room {
	buildingID := f.State().Fields[validation.FieldBuildingID]
	if buildingID == "" {
		return []models.Room{}
	}
	return f.rooms.Filter(func(r models.Room) bool { return r.BuildingID == buildingID })
}

func (f *TenantForm) Submit(ctx context.Context) error {
	return f.submit(ctx, f.check, func(ctx context.Context, v validation.Fields) error {
		_, err := f.tenants.Create(ctx, models.Tenant{
			Name:       v[validation.FieldName],
			Aadhar:     models.FlexString(v[validation.FieldAadhar]),
			Mobile:     models.FlexString(v[validation.FieldMobile]),
			RoomID:     v[validation.FieldRoomID],
			BuildingID: v[validation.FieldBuildingID],
		})
		if err != nil {
			return err
		}
		if f.Refetch {
			if err := f.tenants.FetchAll(ctx); err != nil {
				f.logger.Warn("refetch after create failed", zap.Error(err))
			}
		}
		return nil
	})
}

func (f *TenantForm) check(v validation.Fields) validation.Errors {
	errs := validation.Errors{}
	buildingID := v[validation.FieldBuildingID]
	if _, ok := f.buildings.Find(buildingID); !ok {
		errs[validation.FieldBuildingID] = msgUnknownBuilding
	}
	room, ok := f.rooms.Find(v[validation.FieldRoomID])
	switch {
	case !ok:
		errs[validation.FieldRoomID] = msgUnknownRoom
	case room.BuildingID != buildingID:
		errs[validation.FieldRoomID] = msgRoomMismatch
	}
	return errs
}

func (f *TenantForm) Delete(ctx context.Context, id string) error {
	return f.tenants.Delete(ctx, id)
}

// Rows joins the loaded tenants with their room and building names.
func (f *TenantForm) Rows() []TenantRow {
	return JoinTenants(f.tenants.Items(), f.rooms, f.buildings)
}

type RegisterForm struct {
	*Controller
	users *store.Users
}

func NewRegisterForm(users *store.Users, logger *zap.Logger) *RegisterForm {
	return &RegisterForm{
		Controller: newController(validation.Registration, nil, Registered, logger),
		users:      users,
	}
}

// Load fetches the public user list.
func (f *RegisterForm) Load(ctx context.Context) error {
	return f.users.FetchAll(ctx)
}

func (f *RegisterForm) Submit(ctx context.Context) error {
	return f.submit(ctx, nil, func(ctx context.Context, v validation.Fields) error {
		_, err := f.users.Create(ctx, models.User{
			Name:     v[validation.FieldName],
			Email:    v[validation.FieldEmail],
			Password: v[validation.FieldPassword],
		})
		return err
	})
}

// Next is the view to show after a successful registration.
func (f *RegisterForm) Next() route.View { return route.Login }

type LoginForm struct {
	*Controller
	client  *api.Client
	session *session.Session
}

func NewLoginForm(client *api.Client, s *session.Session, logger *zap.Logger) *LoginForm {
	return &LoginForm{
		Controller: newController(validation.Login, nil, "", logger),
		client:     client,
		session:    s,
	}
}

// Submit authenticates and stores the returned token in the session.
func (f *LoginForm) Submit(ctx context.Context) error {
	return f.submit(ctx, nil, func(ctx context.Context, v validation.Fields) error {
		res, err := f.client.Login(ctx, api.LoginRequest{
			Email:    v[validation.FieldEmail],
			Password: v[validation.FieldPassword],
		})
		if err != nil {
			return err
		}
		return f.session.Login(ctx, res.Token)
	})
}

// Next is the view to show after a successful login.
func (f *LoginForm) Next() route.View { return route.Default }

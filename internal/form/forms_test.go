package form_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/apitest"
	"github.com/lalith-99/pgdesk/internal/form"
	"github.com/lalith-99/pgdesk/internal/models"
	"github.com/lalith-99/pgdesk/internal/route"
	"github.com/lalith-99/pgdesk/internal/session"
	"github.com/lalith-99/pgdesk/internal/store"
	"github.com/lalith-99/pgdesk/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	srv     *apitest.Server
	set     *store.Set
	client  *api.Client
	session *session.Session
}

func newEnv(t *testing.T, loggedIn bool) *env {
	t.Helper()
	srv := apitest.New(t)
	tokens := session.NewMemoryStore()
	if loggedIn {
		require.NoError(t, tokens.SetToken(context.Background(), srv.Token(t)))
	}
	sess := session.New(tokens, zap.NewNop())
	client := api.NewClient(srv.URL, sess, zap.NewNop(), api.Options{})
	return &env{srv: srv, set: store.NewSet(client, zap.NewNop()), client: client, session: sess}
}

// seed stores one building with one room on the server.
func (e *env) seed() (models.Building, models.Room) {
	b := e.srv.AddBuilding(models.Building{OwnerName: "Ravi", Name: "Sunrise PG", Address: "12 MG Road", LandMark: "Metro"})
	r := e.srv.AddRoom(models.Room{RoomName: "101", RoomType: models.RoomTypeAC, NumberSharedRoom: "2", BuildingID: b.ID})
	return b, r
}

func buildingFields() map[string]string {
	return map[string]string{
		validation.FieldOwnerName: "Ravi",
		validation.FieldName:      "Lakeview PG",
		validation.FieldAddress:   "4 Lake Road",
		validation.FieldLandMark:  "Temple",
	}
}

func roomFields(buildingID string) map[string]string {
	return map[string]string{
		validation.FieldRoomName:         "202",
		validation.FieldRoomType:         "ac",
		validation.FieldNumberSharedRoom: "3",
		validation.FieldBuildingID:       buildingID,
	}
}

func tenantFields(buildingID, roomID string) map[string]string {
	return map[string]string{
		validation.FieldName:       "Asha",
		validation.FieldAadhar:     "123456789012",
		validation.FieldMobile:     "9876543210",
		validation.FieldBuildingID: buildingID,
		validation.FieldRoomID:     roomID,
	}
}

type submitter interface {
	Fill(map[string]string)
	Submit(context.Context) error
	State() form.State
	Schema() *validation.Schema
	Load(context.Context) error
}

func TestMissingRequiredField_NeverReachesServer(t *testing.T) {
	e := newEnv(t, true)
	b, r := e.seed()

	cases := []struct {
		name   string
		newf   func() submitter
		fields map[string]string
	}{
		{"building", func() submitter { return form.NewBuildingForm(e.set.Buildings, zap.NewNop()) }, buildingFields()},
		{"room", func() submitter { return form.NewRoomForm(e.set.Buildings, e.set.Rooms, zap.NewNop()) }, roomFields(b.ID)},
		{"tenant", func() submitter {
			return form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
		}, tenantFields(b.ID, r.ID)},
	}

	for _, tc := range cases {
		for _, field := range tc.newf().Schema().Fields() {
			t.Run(tc.name+"/"+field, func(t *testing.T) {
				f := tc.newf()
				require.NoError(t, f.Load(context.Background()))

				values := make(map[string]string, len(tc.fields))
				for k, v := range tc.fields {
					values[k] = v
				}
				values[field] = ""
				f.Fill(values)

				before := e.srv.TotalCalls()
				err := f.Submit(context.Background())

				assert.ErrorIs(t, err, form.ErrInvalid)
				errs := f.State().Errors
				assert.Len(t, errs, 1)
				assert.Contains(t, errs, field)
				assert.Equal(t, before, e.srv.TotalCalls(), "no request is sent")
			})
		}
	}
}

func TestBuildingForm_CreateThenRefetch(t *testing.T) {
	e := newEnv(t, true)
	e.seed()
	ctx := context.Background()

	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())
	require.NoError(t, f.Load(ctx))
	require.Equal(t, 1, e.srv.Calls(apitest.RouteBuildings))

	f.Fill(buildingFields())
	require.NoError(t, f.Submit(ctx))

	items := e.set.Buildings.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Lakeview PG", items[0].Name)
	assert.Equal(t, 2, e.srv.Calls(apitest.RouteBuildings), "a full refresh follows the create")

	st := f.State()
	assert.True(t, st.Success)
	assert.Equal(t, form.BuildingAdded, st.Notice)
	assert.False(t, st.Submitting)
	assert.Empty(t, st.Errors)
	assert.Empty(t, st.Fields[validation.FieldName], "draft is reset")
}

func TestBuildingForm_RefetchCanBeTurnedOff(t *testing.T) {
	e := newEnv(t, true)
	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())
	f.Refetch = false

	f.Fill(buildingFields())
	require.NoError(t, f.Submit(context.Background()))
	assert.Zero(t, e.srv.Calls(apitest.RouteBuildings))
	assert.Len(t, e.set.Buildings.Items(), 1)
}

func TestRoomForm_CreateWithoutRefetch(t *testing.T) {
	e := newEnv(t, true)
	b, existing := e.seed()
	ctx := context.Background()

	f := form.NewRoomForm(e.set.Buildings, e.set.Rooms, zap.NewNop())
	assert.Equal(t, "non-ac", f.State().Fields[validation.FieldRoomType])
	require.NoError(t, f.Load(ctx))

	f.Fill(roomFields(b.ID))
	require.NoError(t, f.Submit(ctx))

	items := e.set.Rooms.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "202", items[0].RoomName)
	assert.Equal(t, models.RoomTypeAC, items[0].RoomType)
	assert.Equal(t, existing, items[1])
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteRooms), "no refetch after a room create")

	assert.Equal(t, "non-ac", f.State().Fields[validation.FieldRoomType], "reset restores the default room type")
}

func TestRoomForm_UnknownBuilding(t *testing.T) {
	e := newEnv(t, true)
	ctx := context.Background()

	f := form.NewRoomForm(e.set.Buildings, e.set.Rooms, zap.NewNop())
	require.NoError(t, f.Load(ctx))

	f.Fill(roomFields("ghost"))
	assert.ErrorIs(t, f.Submit(ctx), form.ErrInvalid)
	assert.Equal(t, "Selected building does not exist", f.State().Errors[validation.FieldBuildingID])
	assert.Zero(t, e.srv.Calls(apitest.RouteCreateRoom))
}

func TestTenantForm_CreateWithoutRefetch(t *testing.T) {
	e := newEnv(t, true)
	b, r := e.seed()
	ctx := context.Background()
	old := e.srv.AddTenant(models.Tenant{Name: "Old", RoomID: r.ID, BuildingID: b.ID})

	f := form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
	require.NoError(t, f.Load(ctx))

	f.Fill(tenantFields(b.ID, r.ID))
	require.NoError(t, f.Submit(ctx))

	items := e.set.Tenants.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Asha", items[0].Name)
	assert.Equal(t, old, items[1])
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteTenants))
	assert.Equal(t, form.TenantAdded, f.State().Notice)
}

func TestTenantForm_BuildingChangeCascades(t *testing.T) {
	e := newEnv(t, true)
	b1 := e.srv.AddBuilding(models.Building{Name: "One"})
	b2 := e.srv.AddBuilding(models.Building{Name: "Two"})
	r1 := e.srv.AddRoom(models.Room{RoomName: "101", BuildingID: b1.ID})
	r2 := e.srv.AddRoom(models.Room{RoomName: "102", BuildingID: b1.ID})
	r3 := e.srv.AddRoom(models.Room{RoomName: "201", BuildingID: b2.ID})

	f := form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
	require.NoError(t, f.Load(context.Background()))

	assert.Empty(t, f.RoomOptions(), "no options before a building is chosen")

	f.Change(validation.FieldBuildingID, b1.ID)
	assert.ElementsMatch(t, []models.Room{r1, r2}, f.RoomOptions())

	f.Change(validation.FieldRoomID, r1.ID)
	f.Change(validation.FieldBuildingID, b1.ID)
	assert.Equal(t, r1.ID, f.State().Fields[validation.FieldRoomID], "same building keeps the room")

	f.Change(validation.FieldBuildingID, b2.ID)
	assert.Empty(t, f.State().Fields[validation.FieldRoomID])
	assert.Equal(t, []models.Room{r3}, f.RoomOptions())
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteRooms), "options are filtered locally")
}

func TestTenantForm_RoomMustBelongToBuilding(t *testing.T) {
	e := newEnv(t, true)
	b1 := e.srv.AddBuilding(models.Building{Name: "One"})
	b2 := e.srv.AddBuilding(models.Building{Name: "Two"})
	r1 := e.srv.AddRoom(models.Room{RoomName: "101", BuildingID: b1.ID})
	ctx := context.Background()

	f := form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
	require.NoError(t, f.Load(ctx))

	f.Fill(tenantFields(b2.ID, r1.ID))
	assert.ErrorIs(t, f.Submit(ctx), form.ErrInvalid)
	assert.Equal(t, "Selected room is not in the selected building", f.State().Errors[validation.FieldRoomID])

	f.Change(validation.FieldRoomID, "ghost")
	assert.ErrorIs(t, f.Submit(ctx), form.ErrInvalid)
	assert.Equal(t, "Selected room does not exist", f.State().Errors[validation.FieldRoomID])
	assert.Zero(t, e.srv.Calls(apitest.RouteCreateTenant))
}

func TestTenantForm_LoadFailureIsPerStore(t *testing.T) {
	e := newEnv(t, true)
	e.seed()
	e.srv.Fail(apitest.RouteRooms, apitest.Failure{Status: http.StatusInternalServerError, Message: "rooms unavailable"})

	f := form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
	err := f.Load(context.Background())
	require.Error(t, err)

	assert.Equal(t, "rooms unavailable", e.set.Rooms.State().Err)
	assert.Empty(t, e.set.Buildings.State().Err)
	assert.Len(t, e.set.Buildings.Items(), 1, "other stores still load")
	assert.Equal(t, 1, e.srv.Calls(apitest.RouteTenants))
}

func TestChange_RechecksOnlyThatField(t *testing.T) {
	e := newEnv(t, true)
	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())

	assert.ErrorIs(t, f.Submit(context.Background()), form.ErrInvalid)
	require.Len(t, f.State().Errors, 4)

	f.Change(validation.FieldName, "Sunrise")
	errs := f.State().Errors
	assert.Len(t, errs, 3)
	assert.NotContains(t, errs, validation.FieldName)

	f.Change(validation.FieldOwnerName, strings.Repeat("x", 51))
	assert.Equal(t, "Owner name must not exceed 50 characters", f.State().Errors[validation.FieldOwnerName])
	assert.Equal(t, "Address is required", f.State().Errors[validation.FieldAddress])
}

func TestSubmit_ServerErrorKeepsDraft(t *testing.T) {
	e := newEnv(t, true)
	e.srv.Fail(apitest.RouteCreateBuilding, apitest.Failure{Status: http.StatusInternalServerError, Message: "db down"})

	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())
	f.Fill(buildingFields())
	require.Error(t, f.Submit(context.Background()))

	st := f.State()
	assert.Equal(t, "db down", st.ServerError)
	assert.False(t, st.Submitting)
	assert.False(t, st.Success)
	assert.Equal(t, "Lakeview PG", st.Fields[validation.FieldName])
	assert.Empty(t, e.set.Buildings.Items())

	require.NoError(t, f.Submit(context.Background()))
	assert.Empty(t, f.State().ServerError, "a retry clears the banner")
}

func TestSubmit_NoTokenIsServerBanner(t *testing.T) {
	e := newEnv(t, false)
	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())
	f.Fill(buildingFields())

	err := f.Submit(context.Background())
	assert.ErrorIs(t, err, api.ErrNoToken)
	assert.Equal(t, "No auth token found. Please log in.", f.State().ServerError)
	assert.Zero(t, e.srv.TotalCalls())
}

func TestSuccessWindow(t *testing.T) {
	e := newEnv(t, true)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	f := form.NewBuildingForm(e.set.Buildings, zap.NewNop())
	f.SetClock(func() time.Time { return now })
	f.Fill(buildingFields())
	require.NoError(t, f.Submit(context.Background()))

	assert.True(t, f.State().Success)

	now = now.Add(form.SuccessWindow - time.Millisecond)
	assert.True(t, f.State().Success)

	now = now.Add(time.Millisecond)
	st := f.State()
	assert.False(t, st.Success)
	assert.Empty(t, st.Notice)
}

func TestDelete_FailureLeavesCollection(t *testing.T) {
	e := newEnv(t, true)
	b, r := e.seed()
	ctx := context.Background()

	f := form.NewRoomForm(e.set.Buildings, e.set.Rooms, zap.NewNop())
	require.NoError(t, f.Load(ctx))

	e.srv.Fail(apitest.RouteDeleteRoom, apitest.Failure{Status: http.StatusInternalServerError})
	require.Error(t, f.Delete(ctx, r.ID))
	assert.Equal(t, []models.Room{r}, e.set.Rooms.Items())

	require.NoError(t, f.Delete(ctx, r.ID))
	assert.Empty(t, e.set.Rooms.Items())
	assert.Len(t, e.set.Buildings.Items(), 1)
	_, ok := e.set.Buildings.Find(b.ID)
	assert.True(t, ok)
}

func TestRegisterForm(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	e.srv.AddUser(t, "Ravi", "ravi@example.com", "Abcdef1@")

	f := form.NewRegisterForm(e.set.Users, zap.NewNop())
	require.NoError(t, f.Load(ctx))
	assert.Len(t, e.set.Users.Items(), 1)

	f.Fill(map[string]string{
		validation.FieldName:     "Asha",
		validation.FieldEmail:    "asha@example.com",
		validation.FieldPassword: "abcdef12",
	})
	assert.ErrorIs(t, f.Submit(ctx), form.ErrInvalid)
	assert.Contains(t, f.State().Errors, validation.FieldPassword)
	assert.Zero(t, e.srv.Calls(apitest.RouteRegister))

	f.Change(validation.FieldPassword, "Abcdef1@")
	require.NoError(t, f.Submit(ctx))
	assert.Equal(t, "Asha", e.set.Users.Items()[0].Name)
	assert.Equal(t, route.Login, f.Next())

	f.Fill(map[string]string{
		validation.FieldName:     "Asha Again",
		validation.FieldEmail:    "asha@example.com",
		validation.FieldPassword: "Abcdef1@",
	})
	require.Error(t, f.Submit(ctx))
	assert.Equal(t, "User already exists", f.State().ServerError)
}

func TestLoginForm(t *testing.T) {
	e := newEnv(t, false)
	ctx := context.Background()
	e.srv.AddUser(t, "Ravi", "ravi@example.com", "Abcdef1@")

	f := form.NewLoginForm(e.client, e.session, zap.NewNop())
	f.Fill(map[string]string{validation.FieldEmail: "ravi@example.com", validation.FieldPassword: "Wrong12@x"})
	require.Error(t, f.Submit(ctx))
	assert.Equal(t, "Invalid email or password", f.State().ServerError)
	assert.False(t, e.session.Active(ctx))

	f.Fill(map[string]string{validation.FieldEmail: "Ravi", validation.FieldPassword: "Abcdef1@"})
	require.NoError(t, f.Submit(ctx))
	assert.True(t, e.session.Active(ctx))
	assert.Equal(t, route.Buildings, f.Next())

	// the new session authorizes the protected collections
	require.NoError(t, e.set.Buildings.FetchAll(ctx))
}

func TestJoinTenants(t *testing.T) {
	e := newEnv(t, true)
	b, r := e.seed()
	ctx := context.Background()
	e.srv.AddTenant(models.Tenant{Name: "Asha", RoomID: r.ID, BuildingID: b.ID})
	e.srv.AddTenant(models.Tenant{Name: "Orphan", RoomID: "gone", BuildingID: "gone"})

	f := form.NewTenantForm(e.set.Buildings, e.set.Rooms, e.set.Tenants, zap.NewNop())
	require.NoError(t, f.Load(ctx))

	rows := f.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Orphan", rows[0].Name)
	assert.Empty(t, rows[0].RoomName)
	assert.Equal(t, "Asha", rows[1].Name)
	assert.Equal(t, "101", rows[1].RoomName)
	assert.Equal(t, "Sunrise PG", rows[1].BuildingName)
}

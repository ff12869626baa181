package store_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/apitest"
	"github.com/lalith-99/pgdesk/internal/models"
	"github.com/lalith-99/pgdesk/internal/session"
	"github.com/lalith-99/pgdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, loggedIn bool) (*apitest.Server, *store.Set) {
	t.Helper()
	srv := apitest.New(t)
	tokens := session.NewMemoryStore()
	if loggedIn {
		require.NoError(t, tokens.SetToken(context.Background(), srv.Token(t)))
	}
	client := api.NewClient(srv.URL, session.New(tokens, zap.NewNop()), zap.NewNop(), api.Options{})
	return srv, store.NewSet(client, zap.NewNop())
}

func TestFetchAll_ReplacesInServerOrder(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	a := srv.AddBuilding(models.Building{Name: "A"})
	b := srv.AddBuilding(models.Building{Name: "B"})

	require.NoError(t, set.Buildings.FetchAll(ctx))
	st := set.Buildings.State()
	assert.False(t, st.Loading)
	assert.Empty(t, st.Err)
	assert.Equal(t, []models.Building{b, a}, st.Items, "newest first, as the server lists them")

	c := srv.AddBuilding(models.Building{Name: "C"})
	require.NoError(t, set.Buildings.FetchAll(ctx))
	assert.Equal(t, []models.Building{c, b, a}, set.Buildings.Items(), "refresh replaces rather than appends")
}

func TestFetchAll_FailureKeepsItems(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	r := srv.AddRoom(models.Room{RoomName: "101"})
	require.NoError(t, set.Rooms.FetchAll(ctx))

	srv.Fail(apitest.RouteRooms, apitest.Failure{Status: http.StatusInternalServerError, Message: "db down"})
	err := set.Rooms.FetchAll(ctx)
	require.Error(t, err)

	st := set.Rooms.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "db down", st.Err)
	assert.Equal(t, []models.Room{r}, st.Items)

	require.NoError(t, set.Rooms.FetchAll(ctx))
	assert.Empty(t, set.Rooms.State().Err, "a later success clears the error")
}

func TestFetchAll_NumericFields(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	srv.Respond(apitest.RouteRooms, http.StatusOK,
		[]byte(`[{"_id":"r1","roomName":"101","roomType":"ac","numberSharedRoom":2,"buildingId":"b1"}]`))
	require.NoError(t, set.Rooms.FetchAll(ctx))
	assert.Empty(t, set.Rooms.State().Err)
	require.Len(t, set.Rooms.Items(), 1)
	assert.Equal(t, models.FlexString("2"), set.Rooms.Items()[0].NumberSharedRoom)

	srv.Respond(apitest.RouteTenants, http.StatusOK,
		[]byte(`[{"_id":"t1","name":"Asha","aadhar":123456789012,"mobile":9876543210,"roomId":"r1","buildingId":"b1"}]`))
	require.NoError(t, set.Tenants.FetchAll(ctx))
	tn, ok := set.Tenants.Find("t1")
	require.True(t, ok)
	assert.Equal(t, models.FlexString("123456789012"), tn.Aadhar)
	assert.Equal(t, models.FlexString("9876543210"), tn.Mobile)
}

func TestCreate_PrependsServerRecord(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	b := srv.AddBuilding(models.Building{Name: "A"})
	old := srv.AddRoom(models.Room{RoomName: "100", BuildingID: b.ID})
	require.NoError(t, set.Rooms.FetchAll(ctx))

	created, err := set.Rooms.Create(ctx, models.Room{
		RoomName: "101", RoomType: models.RoomTypeAC, NumberSharedRoom: "2", BuildingID: b.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	items := set.Rooms.Items()
	require.Len(t, items, 2)
	assert.Equal(t, created, items[0])
	assert.Equal(t, old, items[1])
	assert.Equal(t, 1, srv.Calls(apitest.RouteRooms), "create does not refetch")
}

func TestCreate_ServerRejection(t *testing.T) {
	_, set := setup(t, true)

	_, err := set.Rooms.Create(context.Background(), models.Room{
		RoomName: "101", RoomType: models.RoomTypeAC, NumberSharedRoom: "2", BuildingID: "nope",
	})
	require.Error(t, err)
	assert.Equal(t, "Building not found", set.Rooms.State().Err)
	assert.Empty(t, set.Rooms.Items())
}

func TestDelete(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	keep := srv.AddTenant(models.Tenant{Name: "Asha"})
	gone := srv.AddTenant(models.Tenant{Name: "Ravi"})
	require.NoError(t, set.Tenants.FetchAll(ctx))

	srv.Fail(apitest.RouteDeleteTenant, apitest.Failure{Status: http.StatusInternalServerError})
	require.Error(t, set.Tenants.Delete(ctx, gone.ID))
	assert.Equal(t, []models.Tenant{gone, keep}, set.Tenants.Items(), "failed delete leaves items unchanged")
	assert.Equal(t, "Failed to delete tenant.", set.Tenants.State().Err)

	require.NoError(t, set.Tenants.Delete(ctx, gone.ID))
	assert.Equal(t, []models.Tenant{keep}, set.Tenants.Items())
	_, found := set.Tenants.Find(gone.ID)
	assert.False(t, found)
}

func TestDeleteBuilding_EmptyBodyKeepsRecord(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	b := srv.AddBuilding(models.Building{Name: "A"})
	require.NoError(t, set.Buildings.FetchAll(ctx))

	srv.Respond(apitest.RouteDeleteBuilding, http.StatusOK, []byte{})
	require.Error(t, set.Buildings.Delete(ctx, b.ID))
	assert.Equal(t, []models.Building{b}, set.Buildings.Items())
	assert.Equal(t, "Failed to delete building.", set.Buildings.State().Err)
}

func TestNoToken_NeverCallsServer(t *testing.T) {
	srv, set := setup(t, false)

	err := set.Buildings.FetchAll(context.Background())
	assert.ErrorIs(t, err, api.ErrNoToken)
	assert.Equal(t, "No auth token found. Please log in.", set.Buildings.State().Err)

	assert.ErrorIs(t, set.Rooms.FetchAll(context.Background()), api.ErrNoToken)
	assert.Equal(t, "No authentication token found.", set.Rooms.State().Err)
	assert.Zero(t, srv.TotalCalls())
}

func TestUsers_PublicListAndRegistration(t *testing.T) {
	srv, set := setup(t, false)
	ctx := context.Background()

	srv.AddUser(t, "Ravi", "ravi@example.com", "Abcdef1@")
	require.NoError(t, set.Users.FetchAll(ctx))
	assert.Len(t, set.Users.Items(), 1)

	created, err := set.Users.Create(ctx, models.User{Name: "Asha", Email: "asha@example.com", Password: "Abcdef1@"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, set.Users.Items()[0].ID)

	assert.ErrorIs(t, set.Users.Delete(ctx, created.ID), store.ErrUnsupported)
	assert.Len(t, set.Users.Items(), 2)
}

func TestStoresAreIndependent(t *testing.T) {
	srv, set := setup(t, true)
	ctx := context.Background()

	srv.Fail(apitest.RouteBuildings, apitest.Failure{Status: http.StatusInternalServerError})
	require.Error(t, set.Buildings.FetchAll(ctx))
	require.NoError(t, set.Rooms.FetchAll(ctx))

	assert.Equal(t, "Failed to fetch all buildings", set.Buildings.State().Err)
	assert.Empty(t, set.Rooms.State().Err)
}

func TestFilter(t *testing.T) {
	srv, set := setup(t, true)
	r1 := srv.AddRoom(models.Room{RoomName: "101", BuildingID: "b1"})
	srv.AddRoom(models.Room{RoomName: "201", BuildingID: "b2"})
	r3 := srv.AddRoom(models.Room{RoomName: "102", BuildingID: "b1"})
	require.NoError(t, set.Rooms.FetchAll(context.Background()))

	got := set.Rooms.Filter(func(r models.Room) bool { return r.BuildingID == "b1" })
	assert.Equal(t, []models.Room{r3, r1}, got)
}

// cancellingRemote answers only after the caller has given up.
type cancellingRemote struct {
	cancel context.CancelFunc
	items  []models.Building
}

func (r *cancellingRemote) List(context.Context) ([]models.Building, error) {
	r.cancel()
	return r.items, nil
}

func (r *cancellingRemote) Create(_ context.Context, b models.Building) (models.Building, error) {
	r.cancel()
	b.ID = "late"
	return b, nil
}

func (r *cancellingRemote) Delete(context.Context, string) error {
	r.cancel()
	return nil
}

func TestAbandonedRequests_DoNotUpdateState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := &cancellingRemote{cancel: cancel, items: []models.Building{{ID: "b1"}}}
	c := store.NewCollection[models.Building]("buildings", remote, zap.NewNop())

	err := c.FetchAll(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, c.Items())
	assert.False(t, c.State().Loading)

	_, err = c.Create(ctx, models.Building{Name: "A"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, c.Items())
}

func TestAbandonedDelete_KeepsRecord(t *testing.T) {
	seedCtx := context.Background()
	remote := &cancellingRemote{cancel: func() {}, items: []models.Building{{ID: "b1"}}}
	c := store.NewCollection[models.Building]("buildings", remote, zap.NewNop())
	require.NoError(t, c.FetchAll(seedCtx))

	ctx, cancel := context.WithCancel(context.Background())
	remote.cancel = cancel
	assert.ErrorIs(t, c.Delete(ctx, "b1"), context.Canceled)
	assert.Len(t, c.Items(), 1)
}

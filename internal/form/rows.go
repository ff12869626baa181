package form

import (
	"github.com/lalith-99/pgdesk/internal/models"
	"github.com/lalith-99/pgdesk/internal/store"
)

// TenantRow is a tenant with the names of its room and building resolved
// from the loaded collections. Names are empty when the record is missing.
type TenantRow struct {
	models.Tenant
	RoomName     string
	BuildingName string
}

func JoinTenants(tenants []models.Tenant, rooms *store.Rooms, buildings *store.Buildings) []TenantRow {
	rows := make([]TenantRow, 0, len(tenants))
	for _, t := range tenants {
		row := TenantRow{Tenant: t}
		if r, ok := rooms.Find(t.RoomID); ok {
			row.RoomName = r.RoomName
		}
		if b, ok := buildings.Find(t.BuildingID); ok {
			row.BuildingName = b.Name
		}
		rows = append(rows, row)
	}
	return rows
}

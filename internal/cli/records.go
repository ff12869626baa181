package cli

import (
	"fmt"

	"github.com/lalith-99/pgdesk/internal/form"
	"github.com/lalith-99/pgdesk/internal/route"
	"github.com/lalith-99/pgdesk/internal/validation"
	"github.com/spf13/cobra"
)

var buildingFields = fields{
	{"owner", validation.FieldOwnerName, "Owner name"},
	{"name", validation.FieldName, "Building name"},
	{"address", validation.FieldAddress, "Street address"},
	{"landmark", validation.FieldLandMark, "Nearby landmark"},
}

var roomFields = fields{
	{"name", validation.FieldRoomName, "Room name or number"},
	{"type", validation.FieldRoomType, "Room type: ac or non-ac (default non-ac)"},
	{"shared", validation.FieldNumberSharedRoom, "Number of occupants sharing the room"},
	{"building", validation.FieldBuildingID, "Building id"},
}

var tenantFields = fields{
	{"name", validation.FieldName, "Tenant name"},
	{"aadhar", validation.FieldAadhar, "12-digit Aadhar number"},
	{"mobile", validation.FieldMobile, "10-digit mobile number"},
	{"building", validation.FieldBuildingID, "Building id"},
	{"room", validation.FieldRoomID, "Room id, must be in the building"},
}

func (a *App) buildingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "building",
		Aliases: []string{"buildings"},
		Short:   "Manage buildings",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(cmd, route.Buildings); err != nil {
				return err
			}
			f := form.NewBuildingForm(a.Stores.Buildings, a.Logger)
			f.Fill(buildingFields.values(cmd))
			if err := submitResult(cmd, f, f.Submit(cmd.Context())); err != nil {
				return err
			}
			printCreated(cmd, f.State().Notice, firstID(a.Stores.Buildings.Items()))
			return nil
		},
	}
	buildingFields.bind(add)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List buildings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.listBuildings(cmd)
			},
		},
		add,
		a.deleteCmd("building", route.Buildings, func(cmd *cobra.Command, id string) error {
			f := form.NewBuildingForm(a.Stores.Buildings, a.Logger)
			if err := f.Delete(cmd.Context(), id); err != nil {
				return storeError(a.Stores.Buildings.State().Err, err)
			}
			return nil
		}),
	)
	return cmd
}

func (a *App) listBuildings(cmd *cobra.Command) error {
	if err := a.enter(cmd, route.Buildings); err != nil {
		return err
	}
	f := form.NewBuildingForm(a.Stores.Buildings, a.Logger)
	if err := f.Load(cmd.Context()); err != nil {
		return storeError(a.Stores.Buildings.State().Err, err)
	}

	tw := table(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNAME\tOWNER\tADDRESS\tLANDMARK")
	for _, b := range a.Stores.Buildings.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.OwnerName, b.Address, b.LandMark)
	}
	return tw.Flush()
}

func (a *App) roomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "room",
		Aliases: []string{"rooms"},
		Short:   "Manage rooms",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a room to a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(cmd, route.Rooms); err != nil {
				return err
			}
			ctx := cmd.Context()
			f := form.NewRoomForm(a.Stores.Buildings, a.Stores.Rooms, a.Logger)
			if err := f.Load(ctx); err != nil {
				return storeError(firstBanner(a.Stores.Buildings.State().Err, a.Stores.Rooms.State().Err), err)
			}
			f.Fill(roomFields.values(cmd))
			if err := submitResult(cmd, f, f.Submit(ctx)); err != nil {
				return err
			}
			printCreated(cmd, f.State().Notice, firstID(a.Stores.Rooms.Items()))
			return nil
		},
	}
	roomFields.bind(add)

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List rooms",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.enter(cmd, route.Rooms); err != nil {
					return err
				}
				f := form.NewRoomForm(a.Stores.Buildings, a.Stores.Rooms, a.Logger)
				if err := f.Load(cmd.Context()); err != nil {
					return storeError(firstBanner(a.Stores.Buildings.State().Err, a.Stores.Rooms.State().Err), err)
				}

				tw := table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tROOM\tTYPE\tSHARED\tBUILDING")
				for _, r := range a.Stores.Rooms.Items() {
					building := ""
					if b, ok := a.Stores.Buildings.Find(r.BuildingID); ok {
						building = b.Name
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.RoomName, r.RoomType, r.NumberSharedRoom, orDash(building))
				}
				return tw.Flush()
			},
		},
		add,
		a.deleteCmd("room", route.Rooms, func(cmd *cobra.Command, id string) error {
			f := form.NewRoomForm(a.Stores.Buildings, a.Stores.Rooms, a.Logger)
			if err := f.Delete(cmd.Context(), id); err != nil {
				return storeError(a.Stores.Rooms.State().Err, err)
			}
			return nil
		}),
	)
	return cmd
}

func (a *App) tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenant",
		Aliases: []string{"tenants"},
		Short:   "Manage tenants",
	}

	load := func(cmd *cobra.Command) (*form.TenantForm, error) {
		if err := a.enter(cmd, route.Tenants); err != nil {
			return nil, err
		}
		s := a.Stores
		f := form.NewTenantForm(s.Buildings, s.Rooms, s.Tenants, a.Logger)
		if err := f.Load(cmd.Context()); err != nil {
			return nil, storeError(firstBanner(s.Buildings.State().Err, s.Rooms.State().Err, s.Tenants.State().Err), err)
		}
		return f, nil
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a tenant to a room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(cmd)
			if err != nil {
				return err
			}
			f.Fill(tenantFields.values(cmd))
			if err := submitResult(cmd, f, f.Submit(cmd.Context())); err != nil {
				return err
			}
			printCreated(cmd, f.State().Notice, firstID(a.Stores.Tenants.Items()))
			return nil
		},
	}
	tenantFields.bind(add)

	rooms := &cobra.Command{
		Use:   "rooms",
		Short: "Show the rooms a tenant can be placed in for a building",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(cmd)
			if err != nil {
				return err
			}
			buildingID, _ := cmd.Flags().GetString("building")
			f.Change(validation.FieldBuildingID, buildingID)

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tROOM\tTYPE\tSHARED")
			for _, r := range f.RoomOptions() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.RoomName, r.RoomType, r.NumberSharedRoom)
			}
			return tw.Flush()
		},
	}
	rooms.Flags().String("building", "", "Building id")
	_ = rooms.MarkFlagRequired("building")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tenants with their room and building",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := load(cmd)
				if err != nil {
					return err
				}

				tw := table(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tNAME\tAADHAR\tMOBILE\tROOM\tBUILDING")
				for _, row := range f.Rows() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						row.ID, row.Name, row.Aadhar, row.Mobile, orDash(row.RoomName), orDash(row.BuildingName))
				}
				return tw.Flush()
			},
		},
		add,
		rooms,
		a.deleteCmd("tenant", route.Tenants, func(cmd *cobra.Command, id string) error {
			s := a.Stores
			f := form.NewTenantForm(s.Buildings, s.Rooms, s.Tenants, a.Logger)
			if err := f.Delete(cmd.Context(), id); err != nil {
				return storeError(s.Tenants.State().Err, err)
			}
			return nil
		}),
	)
	return cmd
}

func (a *App) deleteCmd(noun string, v route.View, del func(*cobra.Command, string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(cmd, v); err != nil {
				return err
			}
			if err := del(cmd, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s.\n", noun, args[0])
			return nil
		},
	}
}

func printCreated(cmd *cobra.Command, notice, id string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", notice, id)
}

func firstID[T interface{ GetID() string }](items []T) string {
	if len(items) == 0 {
		return ""
	}
	return items[0].GetID()
}

func firstBanner(banners ...string) string {
	for _, b := range banners {
		if b != "" {
			return b
		}
	}
	return ""
}

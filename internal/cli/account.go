package cli

import (
	"fmt"

	"github.com/lalith-99/pgdesk/internal/form"
	"github.com/lalith-99/pgdesk/internal/route"
	"github.com/lalith-99/pgdesk/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var registerFields = fields{
	{"name", validation.FieldName, "Full name (3-50 characters)"},
	{"email", validation.FieldEmail, "Email address"},
	{"password", validation.FieldPassword, "Password: 8+ chars with upper, lower, digit and one of @$!%*?&"},
}

var loginFields = fields{
	{"email", validation.FieldEmail, "Email address or user name"},
	{"password", validation.FieldPassword, "Password"},
}

func (a *App) registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(cmd, route.Register); err != nil {
				return err
			}
			ctx := cmd.Context()

			f := form.NewRegisterForm(a.Stores.Users, a.Logger)
			if err := f.Load(ctx); err != nil {
				a.Logger.Info("could not load users", zap.Error(err))
			}

			f.Fill(registerFields.values(cmd))
			if err := submitResult(cmd, f, f.Submit(ctx)); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, f.State().Notice)
			fmt.Fprintf(out, "Next: %s --email <email> --password <password>\n", viewCommands[f.Next()])
			return nil
		},
	}
	registerFields.bind(cmd)
	return cmd
}

func (a *App) loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(cmd, route.Login); err != nil {
				return err
			}

			f := form.NewLoginForm(a.Client, a.Session, a.Logger)
			values := loginFields.values(cmd)
			f.Fill(values)
			if err := submitResult(cmd, f, f.Submit(cmd.Context())); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged in as %s.\n", values[validation.FieldEmail])
			fmt.Fprintf(out, "Next: %s list\n", viewCommands[f.Next()])
			return nil
		},
	}
	loginFields.bind(cmd)
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.Navigator.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active and what you can do next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active := a.Session.Active(cmd.Context())
			out := cmd.OutOrStdout()
			if active {
				fmt.Fprintln(out, "Logged in.")
			} else {
				fmt.Fprintln(out, "Not logged in.")
			}
			printLinks(out, route.Links(active))
			return nil
		},
	}
}

func (a *App) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Registered accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users := a.Stores.Users
			if err := users.FetchAll(cmd.Context()); err != nil {
				return storeError(users.State().Err, err)
			}

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tEMAIL")
			for _, u := range users.Items() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
			}
			return tw.Flush()
		},
	})
	return cmd
}

// Package cli is the terminal front end. Each command stands in for one view
// of the web client and is admitted by the same route guard.
package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lalith-99/pgdesk/internal/api"
	"github.com/lalith-99/pgdesk/internal/form"
	"github.com/lalith-99/pgdesk/internal/route"
	"github.com/lalith-99/pgdesk/internal/session"
	"github.com/lalith-99/pgdesk/internal/store"
	"github.com/lalith-99/pgdesk/internal/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrLoginRequired is returned when a protected command runs without an
// active session.
var ErrLoginRequired = errors.New("login required")

type App struct {
	Session   *session.Session
	Client    *api.Client
	Stores    *store.Set
	Navigator *route.Navigator
	Logger    *zap.Logger
}

func New(sess *session.Session, client *api.Client, logger *zap.Logger) *App {
	return &App{
		Session:   sess,
		Client:    client,
		Stores:    store.NewSet(client, logger),
		Navigator: route.NewNavigator(sess, logger),
		Logger:    logger,
	}
}

// RootCmd builds the command tree.
func (a *App) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pgdesk",
		Short:         "Manage PG buildings, rooms and tenants",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := a.Navigator.Mount(cmd.Context(), route.Landing)
			if v != route.Landing {
				return a.listBuildings(cmd)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Welcome to PG of Bangalore")
			printLinks(out, route.Links(false))
			return nil
		},
	}

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.statusCmd(),
		a.usersCmd(),
		a.buildingCmd(),
		a.roomCmd(),
		a.tenantCmd(),
	)
	return root
}

// enter runs the route guard for v.
func (a *App) enter(cmd *cobra.Command, v route.View) error {
	if _, d := a.Navigator.Navigate(cmd.Context(), v); d == route.RedirectLogin {
		fmt.Fprintln(cmd.ErrOrStderr(), "You are not logged in. Run: pgdesk login --email <email> --password <password>")
		return ErrLoginRequired
	}
	return nil
}

// userError carries the text shown to the user and keeps the cause.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

type formView interface {
	State() form.State
	Schema() *validation.Schema
}

// submitResult turns the outcome of a form submit into output and an error.
func submitResult(cmd *cobra.Command, f formView, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, form.ErrInvalid) {
		w := cmd.ErrOrStderr()
		for _, fe := range f.Schema().Ordered(f.State().Errors) {
			fmt.Fprintf(w, "%s: %s\n", fe.Field, fe.Message)
		}
		return err
	}
	msg := f.State().ServerError
	if msg == "" {
		msg = api.Message(err)
	}
	return &userError{msg: msg, err: err}
}

// storeError reports a failed collection request with the store's banner.
func storeError(banner string, err error) error {
	if banner == "" {
		banner = api.Message(err)
	}
	return &userError{msg: banner, err: err}
}

// fields maps command flags onto form fields.
type fields []struct {
	flag, field, usage string
}

func (fs fields) bind(cmd *cobra.Command) {
	for _, f := range fs {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// values returns the flags the user set, keyed by form field.
func (fs fields) values(cmd *cobra.Command) map[string]string {
	out := make(map[string]string, len(fs))
	for _, f := range fs {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetString(f.flag)
		out[f.field] = v
	}
	return out
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

var viewCommands = map[route.View]string{
	route.Landing:   "pgdesk",
	route.Register:  "pgdesk register",
	route.Login:     "pgdesk login",
	route.Buildings: "pgdesk building",
	route.Rooms:     "pgdesk room",
	route.Tenants:   "pgdesk tenant",
}

func printLinks(w io.Writer, links []route.Link) {
	tw := table(w)
	for _, l := range links {
		command := viewCommands[l.View]
		if l.Logout {
			command = "pgdesk logout"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", l.Label, command)
	}
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

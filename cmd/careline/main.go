package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careline/careline/internal/config"
	"github.com/careline/careline/internal/console"
	"github.com/careline/careline/internal/domain/appointment"
	"github.com/careline/careline/internal/domain/consultnote"
	"github.com/careline/careline/internal/domain/diagnosis"
	"github.com/careline/careline/internal/domain/doctor"
	"github.com/careline/careline/internal/domain/encounter"
	"github.com/careline/careline/internal/domain/laborder"
	"github.com/careline/careline/internal/domain/patient"
	"github.com/careline/careline/internal/domain/prescription"
	"github.com/careline/careline/internal/domain/vitalsign"
	"github.com/careline/careline/internal/forms"
	"github.com/careline/careline/internal/platform/api"
	"github.com/careline/careline/internal/platform/authz"
	"github.com/careline/careline/internal/platform/session"
)

const version = "0.1.0"

// errDenied signals that output was already rendered and the command should
// just exit non-zero.
var errDenied = errors.New("access denied")

type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	client  *api.Client
	session *session.Store
	guard   *authz.Guard
	render  *console.Renderer
	pages   *console.Pages
}

func newApp() (*app, error) {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	storage, err := session.NewFileStorage(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	// The client and the session store reference each other: the client
	// reads the current token per request, and 401 responses flow back into
	// the store.
	var store *session.Store
	client := api.NewClient(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
		api.WithLogger(logger),
		api.WithTokenSource(func() string {
			if store == nil {
				return ""
			}
			return store.Token()
		}),
		api.WithUnauthorizedHook(func() {
			if store != nil {
				store.NotifyUnauthorized()
			}
		}),
	)
	store = session.NewStore(storage, client,
		session.WithLogger(logger),
		session.WithLogoutOnUnauthorized(cfg.LogoutOnUnauthorized),
	)
	store.Restore()

	render := console.NewRenderer(os.Stdout)
	encounters := encounter.NewService(client, logger)
	notes := consultnote.NewService(client, logger)
	vitals := vitalsign.NewService(client, logger)
	diagnoses := diagnosis.NewService(client, logger)
	prescriptions := prescription.NewService(client, logger)
	labOrders := laborder.NewService(client, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		session: store,
		guard:   authz.NewGuard(store, authz.DefaultRoutes(), logger),
		render:  render,
		pages: &console.Pages{
			Renderer:      render,
			Patients:      patient.NewService(client, logger),
			Doctors:       doctor.NewService(client, logger),
			Appointments:  appointment.NewService(client, logger),
			Encounters:    encounters,
			Notes:         notes,
			Vitals:        vitals,
			Diagnoses:     diagnoses,
			Prescriptions: prescriptions,
			LabOrders:     labOrders,
			Details: &encounter.DetailsLoader{
				Encounters:    encounters,
				Notes:         notes,
				Vitals:        vitals,
				Diagnoses:     diagnoses,
				Prescriptions: prescriptions,
				LabOrders:     labOrders,
				Logger:        logger,
			},
			Logger: logger,
		},
	}, nil
}

// authorize runs the route guard for a command. Denials are rendered here;
// callers just stop on error.
func (a *app) authorize(route string) error {
	decision := a.guard.Check(route)
	switch decision.Verdict {
	case authz.Allow:
		return nil
	case authz.RedirectLogin:
		a.render.Warn("Please log in to continue. (requested: %s)", decision.From)
		return errDenied
	case authz.RedirectHome:
		a.render.Muted("You do not have access to that page. Back to home.")
		return errDenied
	default:
		return errDenied
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "careline",
		Short:         "Hospital management client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a, err := newApp()
	if err != nil {
		startupLogger := zerolog.New(os.Stderr)
		startupLogger.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(registerCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(versionCmd(a))
	rootCmd.AddCommand(patientsCmd(a))
	rootCmd.AddCommand(appointmentsCmd(a))
	rootCmd.AddCommand(encountersCmd(a))
	rootCmd.AddCommand(notesCmd(a))
	rootCmd.AddCommand(vitalsCmd(a))
	rootCmd.AddCommand(diagnosesCmd(a))
	rootCmd.AddCommand(prescriptionsCmd(a))
	rootCmd.AddCommand(labOrdersCmd(a))
	rootCmd.AddCommand(adminCmd(a))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loginCmd(a *app) *cobra.Command {
	var draft forms.LoginDraft
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with username or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := draft.Validate(); !errs.Valid() {
				a.render.Error("%s", errs.Joined())
				return errDenied
			}
			result := a.session.Login(cmd.Context(), draft.UsernameOrEmail, draft.Password)
			if !result.OK {
				a.render.Error("%s", result.Message)
				return errDenied
			}
			user := a.session.User()
			a.render.Success("Logged in as %s.", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&draft.UsernameOrEmail, "user", "u", "", "username or email")
	cmd.Flags().StringVarP(&draft.Password, "password", "p", "", "password")
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	var draft forms.RegistrationDraft
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := draft.Validate(); !errs.Valid() {
				a.render.Error("%s", errs.Joined())
				return errDenied
			}
			result := a.session.Register(cmd.Context(), *draft.Payload())
			if !result.OK {
				a.render.Error("%s", result.Message)
				return errDenied
			}
			a.render.Success("%s", result.Message)
			a.render.Muted("You can now run: careline login")
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.FullName, "full-name", "", "full name")
	cmd.Flags().StringVarP(&draft.Username, "user", "u", "", "username")
	cmd.Flags().StringVar(&draft.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&draft.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&draft.ConfirmPassword, "confirm-password", "", "password confirmation")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			a.render.Success("Logged out.")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.authorize("/profile"); err != nil {
				return err
			}
			user := a.session.User()
			a.render.Line("Username: %s", user.Username)
			for _, role := range user.Roles {
				a.render.Line("Role: %s", role)
			}
			if info := a.session.TokenInfo(); info != nil {
				a.render.Muted("Token expires: %s", info.ExpiresAt.Format("2006-01-02 15:04"))
				if info.Expired() {
					a.render.Warn("Token has expired; requests will be rejected.")
				}
			}
			return nil
		},
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.render.Line("careline %s", version)
			a.render.Muted("backend: %s", a.client.BaseURL())
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jhoicas/restaurante-cliente/internal/application/auth"
	"github.com/jhoicas/restaurante-cliente/internal/application/roles"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/backend"
	"github.com/jhoicas/restaurante-cliente/internal/infrastructure/filestore"
	"github.com/jhoicas/restaurante-cliente/pkg/config"
	"github.com/jhoicas/restaurante-cliente/pkg/logger"
)

// cliDevice la CLI es un único dispositivo por archivo de sesión.
const cliDevice = "cli"

type rootOptions struct {
	sessionPath string
	backendURL  string
	timeout     time.Duration
	noColor     bool
	verbose     bool
}

// app dependencias construidas en PersistentPreRunE.
type app struct {
	store    *filestore.CredentialStore
	sessions *auth.SessionService
	printer  *printer
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "restaurantectl",
		Short: "Cliente de sesión del restaurante",
		Long: `restaurantectl inicia sesión contra el API de usuarios del restaurante,
resuelve el rol del empleado y guarda la sesión en un archivo local.

Ejemplos:
  restaurantectl login --correo cajero1@x.com --contrasena secreto
  restaurantectl sesion
  restaurantectl ruta /empleado-cajero/venta
  restaurantectl destino ADMINISTRADOR
  restaurantectl logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.sessionPath, "sesion", "", "archivo de sesión (por defecto $XDG_CONFIG_HOME/restaurantectl/sesion.json)")
	root.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "URL del API de usuarios (por defecto BACKEND_USUARIO_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "timeout de cada llamada al backend")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "desactivar colores")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "logs de depuración en stderr")

	root.AddCommand(
		newLoginCmd(a),
		newRegistroCmd(a),
		newLogoutCmd(a),
		newSesionCmd(a),
		newRutaCmd(a),
		newDestinoCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Env: "development", Level: level, Out: cmd.ErrOrStderr()})

	path := opts.sessionPath
	if path == "" {
		if path, err = filestore.DefaultPath(); err != nil {
			return err
		}
	}

	baseURL := opts.backendURL
	if baseURL == "" {
		baseURL = cfg.Backend.UsuarioURL
	}
	timeout := opts.timeout
	if timeout <= 0 {
		timeout = cfg.Backend.Timeout()
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok || opts.noColor {
		color.NoColor = true
	}

	client := backend.NewClient(baseURL, timeout, log)
	svcOpts := []auth.Option{auth.WithResolveTimeout(cfg.Backend.RoleTimeout())}
	if !cfg.Session.EmailFallback {
		svcOpts = append(svcOpts, auth.WithEmailFallback(nil))
	}

	a.store = filestore.NewCredentialStore(path)
	a.sessions = auth.NewSessionService(client, roles.NewResolver(client, log), a.store, log, svcOpts...)
	a.printer = newPrinter(cmd.OutOrStdout())
	return nil
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/restaurante-cliente/internal/application/dto"
	"github.com/jhoicas/restaurante-cliente/internal/application/gate"
	"github.com/jhoicas/restaurante-cliente/internal/domain"
)

func newLoginCmd(a *app) *cobra.Command {
	var correo, contrasena string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Iniciar sesión y guardar el token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.sessions.Login(cmd.Context(), cliDevice, correo, contrasena)
			if err != nil {
				return userError(err)
			}
			a.printer.Success("sesión iniciada")
			a.printer.Field("tipo", out.Tipo)
			a.printer.Field("redirección", out.Redireccion)
			a.printer.Field("archivo", a.store.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&correo, "correo", "", "correo del usuario")
	cmd.Flags().StringVar(&contrasena, "contrasena", "", "contraseña")
	return cmd
}

func newRegistroCmd(a *app) *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "registro",
		Short: "Registrar un cliente nuevo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.sessions.Register(cmd.Context(), in)
			if err != nil {
				return userError(err)
			}
			a.printer.Success("%s", out.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Nombre, "nombre", "", "nombre")
	cmd.Flags().StringVar(&in.Apellidos, "apellidos", "", "apellidos")
	cmd.Flags().StringVar(&in.Telefono, "telefono", "", "teléfono (mínimo 10 dígitos)")
	cmd.Flags().StringVar(&in.Correo, "correo", "", "correo")
	cmd.Flags().StringVar(&in.Contrasena, "contrasena", "", "contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&in.ConfirmarContrasena, "confirmar", "", "confirmación de la contraseña")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cerrar la sesión local",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := a.sessions.Logout(cmd.Context(), cliDevice)
			if err != nil {
				return err
			}
			a.printer.Success("sesión cerrada")
			a.printer.Field("redirección", target)
			return nil
		},
	}
}

func newSesionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sesion",
		Short: "Mostrar la sesión guardada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.sessions.Describe(cmd.Context(), cliDevice)
			if err != nil {
				return err
			}
			if !s.Autenticado {
				a.printer.Warning("sin sesión")
				return nil
			}
			a.printer.Header("Sesión")
			a.printer.Field("userId", s.UserID)
			a.printer.Field("tipo", s.Tipo)
			a.printer.Field("redirección", s.Redireccion)
			if len(s.Usuario) > 0 {
				a.printer.Field("usuario", string(s.Usuario))
			}
			return nil
		},
	}
}

func newRutaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ruta <path>",
		Short: "Evaluar el control de acceso para una ruta con la sesión guardada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.sessions.Session(cmd.Context(), cliDevice)
			if err != nil {
				return err
			}
			d := gate.Decide(args[0], sess)
			a.printer.Header(args[0])
			a.printer.Field("resultado", d.Outcome.String())
			a.printer.Field("árbol", d.Tree.Prefix)
			a.printer.Field("sección", d.Section)
			if d.Outcome == gate.Redirect {
				a.printer.Field("redirección", d.Redirect)
			}
			return nil
		},
	}
}

func newDestinoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "destino [tipo]",
		Short: "Ruta de aterrizaje para un tipo de usuario (por defecto el de la sesión)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tipo string
			if len(args) == 1 {
				tipo = args[0]
			} else {
				t, err := a.sessions.UserType(cmd.Context(), cliDevice)
				if err != nil {
					return err
				}
				tipo = t.String()
			}
			target, err := a.sessions.RedirectTargetFor(cmd.Context(), cliDevice, tipo)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
}

// userError deja solo el mensaje visible para los errores de dominio.
func userError(err error) error {
	var (
		verr *domain.ValidationError
		aerr *domain.AuthenticationError
		rerr *domain.RegistrationError
	)
	switch {
	case errors.As(err, &verr):
		return errors.New(verr.Message)
	case errors.As(err, &aerr):
		return errors.New(aerr.Error())
	case errors.As(err, &rerr):
		return errors.New(rerr.Error())
	}
	return err
}

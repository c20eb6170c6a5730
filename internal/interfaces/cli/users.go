package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administración de usuarios",
	}

	var email, password, name string
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario administrador",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			authUC, err := svc.auth()
			if err != nil {
				return err
			}
			user, err := authUC.CreateAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "administrador %s creado (id %d)\n", user.Email, user.ID)
			return nil
		},
	}
	createAdmin.Flags().StringVar(&email, "email", "", "Email del administrador")
	createAdmin.Flags().StringVar(&password, "password", "", "Password (mínimo 8 caracteres)")
	createAdmin.Flags().StringVar(&name, "name", "", "Nombre completo")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")

	cmd.AddCommand(createAdmin)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista los usuarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			users, err := svc.Users.List(cmd.Context())
			if err != nil {
				return err
			}
			return a.printJSON(users)
		},
	})

	// actor identifica al admin que opera; 0 es la consola, sin restricciones sobre sí mismo.
	var actor int64
	setRole := &cobra.Command{
		Use:   "set-role <user-id> <admin|user>",
		Short: "Cambia el rol de un usuario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Users.SetRole(cmd.Context(), actor, id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "usuario %d: rol %s\n", id, args[1])
			return nil
		},
	}
	setActive := &cobra.Command{
		Use:   "set-active <user-id> <true|false>",
		Short: "Activa o bloquea un usuario; bloquear cierra sus sesiones",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			active, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("estado inválido %q: %w", args[1], err)
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Users.SetActive(cmd.Context(), actor, id, active); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "usuario %d: activo=%t\n", id, active)
			return nil
		},
	}
	deleteUser := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Elimina un usuario y sus sesiones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("user-id", args[0])
			if err != nil {
				return err
			}
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Users.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "usuario %d eliminado\n", id)
			return nil
		},
	}
	for _, c := range []*cobra.Command{setRole, setActive, deleteUser} {
		c.Flags().Int64Var(&actor, "actor", 0, "Id del administrador que ejecuta el cambio")
		cmd.AddCommand(c)
	}
	return cmd
}

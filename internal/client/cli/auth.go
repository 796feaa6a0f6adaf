package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

func newRegisterCommand(a *app) *cobra.Command {
	var in models.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.client.Register(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			if err := a.saveSession(token); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "registered as %s\n", in.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCommand(a *app) *cobra.Command {
	var in models.LoginInput

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := a.client.Login(a.ctx(cmd), in)
			if err != nil {
				return err
			}
			if err := a.saveSession(token); err != nil {
				return err
			}
			sess, _ := a.state.Session()
			fmt.Fprintf(out(cmd), "logged in as %s (%s)\n", in.Email, sess.Identity.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.dropSession(); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "logged out")
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Checker-Finance/maturity-client/internal/services"
	"github.com/Checker-Finance/maturity-client/pkg/model"
)

func signinCmd() *cobra.Command {
	var (
		email      string
		remember   bool
		fromSecret string
	)
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and store the session token",
		Long: `Sign in with email and password, or with a service account kept in
AWS Secrets Manager (--from-secret <name>, read from {env}/maturity/<name>). With --remember the token is kept in
the persistent store (Redis) and reused by later invocations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var res services.Result[model.User]
			if fromSecret != "" {
				accounts, err := current.accounts(ctx)
				if err != nil {
					return err
				}
				res = services.Wrap(current.auth.SignInWithSecret(ctx, accounts, fromSecret, remember))
			} else {
				if email == "" {
					return errors.New("--email is required")
				}
				password, err := readPassword()
				if err != nil {
					return err
				}
				res = services.Wrap(current.auth.SignIn(ctx, email, password, remember))
			}
			user, err := check(res)
			if err != nil {
				return err
			}
			current.printf("Signed in as %s\n", user.Email)
			if remember && !current.persistent {
				current.printf("Note: REDIS_ADDR is not set, so the session ends with this process.\n")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session after this process exits")
	cmd.Flags().StringVar(&fromSecret, "from-secret", "", "AWS Secrets Manager secret holding {email,password}")
	return cmd
}

func signupCmd() *cobra.Command {
	var req model.SignUpRequest
	var remember bool
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Email == "" {
				return errors.New("--email is required")
			}
			password, err := readPassword()
			if err != nil {
				return err
			}
			req.Password = password
			user, err := check(services.Wrap(current.auth.SignUp(cmd.Context(), req, remember)))
			if err != nil {
				return err
			}
			current.printf("Account created for %s\n", user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Organization, "org", "", "organisation name")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the session after this process exits")
	return cmd
}

func signoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := current.auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			current.printf("Signed out\n")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := check(services.Wrap(current.auth.Me(cmd.Context())))
			if err != nil {
				return err
			}
			current.printf("%s <%s> role=%s org=%s\n", user.Name, user.Email, user.Role, user.OrgID)
			return nil
		},
	}
}

// readPassword takes MATURITY_PASSWORD when set, otherwise prompts without
// echo.
func readPassword() (string, error) {
	if pw := os.Getenv("MATURITY_PASSWORD"); pw != "" {
		return pw, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no terminal to prompt for a password; set MATURITY_PASSWORD")
	}
	_, _ = fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

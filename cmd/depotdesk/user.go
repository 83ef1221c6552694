package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/depotdesk/depotdesk/internal/models"
	"github.com/depotdesk/depotdesk/internal/server"
	"github.com/depotdesk/depotdesk/internal/service"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userEmail    string
	userName     string
	userRole     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account directly in the database.

The password is read from the terminal without echo when --password is omitted.`,
	Example: `  depotdesk user create --email ops@example.com --name Ops --role platform_admin`,
	Args:    cobra.NoArgs,
	RunE:    runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(models.RoleSupportStaff), "Role: platform_admin, support_staff or warehouse_admin")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Password (prompted when omitted)")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("name")

	userCmd.AddCommand(userCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	if !models.Role(userRole).Valid() {
		return fmt.Errorf("invalid role %q", userRole)
	}

	password := userPassword
	if password == "" {
		var err error
		password, err = promptPassword(cmd.OutOrStdout(), cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	appCfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, _, err := server.Prepare(appCfg)
	if err != nil {
		return err
	}

	svc := service.NewUserService(database)
	user, err := svc.Create(cmd.Context(), nil, service.UserCreateInput{
		Email:    userEmail,
		Name:     userName,
		Role:     models.Role(userRole),
		Password: password,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			for field, msgs := range verr.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, strings.Join(msgs, " "))
			}
			return fmt.Errorf("user not created")
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s, %s)\n", user.ID, user.Email, user.Role.Label())
	return nil
}

// promptPassword reads and confirms a password. On a terminal input is not
// echoed; otherwise the first line of in is used.
func promptPassword(out io.Writer, in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		fmt.Fprint(out, "Confirm password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}

		if string(first) != string(second) {
			return "", fmt.Errorf("passwords do not match")
		}
		return string(first), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}

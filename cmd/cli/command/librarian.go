package command

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"libraryhub/internal/microservices/http-api/repository"
	"libraryhub/internal/microservices/http-api/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// createLibrarianCmd adds a staff account that can sign in at the desk
var createLibrarianCmd = &cobra.Command{
	Use:   "create-librarian",
	Short: "Create a librarian account",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")

		password, err := readPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			confirm, err := readPassword("Password (again): ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if confirm != password {
				return errors.New("passwords do not match")
			}
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		store := repository.NewStore(e.db)
		auth := service.NewAuthService(store.Librarians(), e.cfg.JWTSecret, e.cfg.SessionTTL)
		librarian, err := auth.CreateLibrarian(cmd.Context(), username, email, password)
		if err != nil {
			return fmt.Errorf("create librarian: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Librarian %s created (id %s)\n", librarian.Username, librarian.ID)
		return nil
	},
}

// readPassword masks input on a terminal and reads one line otherwise,
// so the password can be piped in from a secret store.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after masked input
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

func init() {
	createLibrarianCmd.Flags().StringP("username", "u", "", "Username (required)")
	createLibrarianCmd.Flags().StringP("email", "e", "", "Email address (required)")
	createLibrarianCmd.MarkFlagRequired("username")
	createLibrarianCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(createLibrarianCmd)
}

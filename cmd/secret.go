package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// secretCmd groups the OS keychain commands.
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Store API tokens in the OS keychain",
	Long: `Tokens missing from the config file and the environment are read from the
OS keychain under the service name "gitasana".`,
}

// secretSetCmd stores one secret, read from the terminal without echo.
var secretSetCmd = &cobra.Command{
	Use:       "set <" + strings.Join(secretNames(), "|") + ">",
	Short:     "Save a token to the OS keychain",
	Args:      cobra.ExactArgs(1),
	ValidArgs: secretNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("Enter value for %s: ", args[0])
		value, err := readSecret()
		cmd.Println()
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		if err := contract.StoreSecret(args[0], value); err != nil {
			return err
		}
		cmd.Printf("Saved %s to the OS keychain.\n", args[0])
		return nil
	},
}

// readSecret reads one line from stdin, hiding input on a terminal.
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func secretNames() []string {
	names := make([]string, 0, len(contract.ValidSecretItems))
	for name := range contract.ValidSecretItems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

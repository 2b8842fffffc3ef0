package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nhath/ferrumdb/internal/config"
)

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Store the configured connection's password in the system keyring",
	Long: `Reads a password and stores it in the system keyring under the
connection's label. It is used whenever the config file has no password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		label := cfg.Database.Label()

		password, err := readPassword(fmt.Sprintf("Password for %s: ", label))
		if err != nil {
			return err
		}
		if password == "" {
			return errors.New("empty password, nothing stored")
		}

		ks, err := config.NewKeyringStore()
		if err != nil {
			return err
		}
		if err := ks.SetPassword(label, password); err != nil {
			return fmt.Errorf("failed to store password: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Password stored for %s\n", label)
		return nil
	},
}

// readPassword prompts without echo on a terminal and reads one line otherwise
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

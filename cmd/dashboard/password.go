package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/config"
)

var errPasswordMismatch = errors.New("as senhas não conferem")

func newHashPasswordCommand(opts *rootOptions) *cobra.Command {
	var overwriteEnv bool

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash the admin password with Argon2id",
		Long: "Reads the admin password (masked when stdin is a terminal) and prints the " +
			"Argon2id hash for " + config.EnvAdminPasswordHash + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			hash, err := application.HashPassword(password)
			if err != nil {
				return err
			}

			if overwriteEnv {
				if err := config.SetEnvFileValue(opts.envFile, config.EnvAdminPasswordHash, hash); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s gravado em %s\n", config.EnvAdminPasswordHash, opts.envFile)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwriteEnv, "overwrite-env", false, "Write the hash into the --env-file instead of printing it")
	return cmd
}

// readPassword prompts twice on a terminal. Any other input is read as a
// single line, which lets scripts pipe the password in.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		first, err := promptMasked(f, prompt, "Senha: ")
		if err != nil {
			return "", err
		}
		second, err := promptMasked(f, prompt, "Confirme a senha: ")
		if err != nil {
			return "", err
		}
		if first != second {
			return "", errPasswordMismatch
		}
		return requirePassword(first)
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return requirePassword(strings.TrimRight(line, "\r\n"))
}

func promptMasked(f *os.File, prompt io.Writer, label string) (string, error) {
	fmt.Fprint(prompt, label)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func requirePassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("a senha não pode ser vazia")
	}
	return password, nil
}

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clawledge/internal/auth"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin account helpers",
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for CLAWLEDGE_ADMIN_PASSWORD_HASH",
	Long: `Hashes the password given as argument, or the first line of standard
input when no argument is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pw string
		if len(args) == 1 {
			pw = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			pw = strings.TrimRight(line, "\r\n")
		}
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	adminCmd.AddCommand(hashPasswordCmd)
}

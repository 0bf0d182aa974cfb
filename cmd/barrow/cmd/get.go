package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get the value for a key",
	Long: `Get the value for a key from the store.

Example:
  barrow get mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		value, found, err := db.Get(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting key: %v\n", err)
			os.Exit(1)
		}
		if !found {
			fmt.Fprintln(cmd.OutOrStdout(), "Key not found")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

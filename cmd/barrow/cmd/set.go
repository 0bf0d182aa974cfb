package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a key to a value",
	Long: `Set a key to a value in the store.

Example:
  barrow set mykey myvalue`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		if err := db.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting key: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/barrow/pkg/store"
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Remove a key",
	Long: `Remove a key from the store.

Example:
  barrow rm mykey`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storeFromContext(cmd)
		if err != nil {
			return err
		}

		if err := db.Remove(args[0]); err != nil {
			if errors.Is(err, store.ErrKeyNotFound) {
				fmt.Println("Key not found")
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "Error removing key: %v\n", err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	homeDir      string
	outputJSON   bool
	verbose      bool
	storeBackend string
	storeFile    string
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sdklocator",
		Short:         "Locate Android SDK, Android NDK and Java SDK installations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory holding config.yaml, the preference store and logs")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print every probe to stderr")
	cmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Preference store backend: auto, registry or file")
	cmd.PersistentFlags().StringVar(&storeFile, "store-file", "", "Path of the YAML preference store")

	cmd.AddCommand(newLocateCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newPickCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

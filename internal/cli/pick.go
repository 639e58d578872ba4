package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sdklocator/internal/sdk"
	"sdklocator/internal/tui"
)

// pickCandidate runs the interactive picker; tests substitute a scripted one.
var pickCandidate = tui.RunPicker

func newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <android-sdk|android-ndk|java-sdk>",
		Short: "Choose the preferred installation interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  runPick,
	}
}

func runPick(cmd *cobra.Command, args []string) error {
	kind, err := sdk.ParseKind(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	title := fmt.Sprintf("Select the %s to use", displayName(kind))
	res, err := pickCandidate(cmd.InOrStdin(), cmd.OutOrStdout(), title, sess.resolver.AllAvailablePaths(kind))
	if err != nil {
		return err
	}
	if res.Cancelled {
		cmd.Println("No change.")
		return nil
	}

	if err := sess.resolver.SetPreferredPath(kind, res.Candidate.Path); err != nil {
		return err
	}
	cmd.Printf("Preferred %s set to %s\n", displayName(kind), res.Candidate.Path)
	return nil
}

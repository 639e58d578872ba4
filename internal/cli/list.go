package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdklocator/internal/sdk"
)

var listLimit int

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <android-sdk|android-ndk|java-sdk>",
		Short: "List every valid installation in priority order",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}
	cmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "Stop after this many installations (0 = all)")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := sdk.ParseKind(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	rep, err := sess.resolver.Report(kind, listLimit)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	if outputJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	printCandidates(cmd.OutOrStdout(), rep)
	return nil
}

func printCandidates(out io.Writer, rep sdk.Report) {
	if rep.Override != "" {
		state := "valid"
		if !rep.OverrideValid {
			state = "invalid"
		}
		fmt.Fprintf(out, "Override: %s (%s)\n", rep.Override, state)
	}
	if len(rep.Candidates) == 0 {
		fmt.Fprintf(out, "(no valid %s installations)\n", displayName(rep.Kind))
		return
	}

	fmt.Fprintf(out, "%-3s %-18s %s\n", "#", "Category", "Path")
	for i, c := range rep.Candidates {
		fmt.Fprintf(out, "%-3d %-18s %s\n", i+1, c.Source.Category, c.Path)
		fmt.Fprintf(out, "    from %s\n", c.Source)
	}
}

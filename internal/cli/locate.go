package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdklocator/internal/sdk"
)

type locateResult struct {
	Kind  sdk.Kind `json:"kind"`
	Path  string   `json:"path,omitempty"`
	Found bool     `json:"found"`
}

func newLocateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate [android-sdk|android-ndk|java-sdk|all]...",
		Short: "Print the preferred installation for each toolchain",
		RunE:  runLocate,
	}
}

func runLocate(cmd *cobra.Command, args []string) error {
	kinds, err := parseKinds(args)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var (
		results []locateResult
		errs    []error
	)
	for _, kind := range kinds {
		path, ok, err := sess.resolver.PreferredPath(kind)
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		results = append(results, locateResult{Kind: kind, Path: path, Found: ok})
		if !ok && len(args) > 0 {
			errs = append(errs, fmt.Errorf("no valid %s installation found", displayName(kind)))
		}
	}

	if outputJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		printLocateTable(cmd.OutOrStdout(), results)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func printLocateTable(out io.Writer, results []locateResult) {
	fmt.Fprintf(out, "%-12s %s\n", "Kind", "Path")
	for _, r := range results {
		path := r.Path
		if !r.Found {
			path = "(not found)"
		}
		fmt.Fprintf(out, "%-12s %s\n", r.Kind, path)
	}
}

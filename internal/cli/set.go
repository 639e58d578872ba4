package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sdklocator/internal/sdk"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <android-sdk|android-ndk|java-sdk> <path>",
		Short: "Persist a preferred installation directory (an empty path clears it)",
		Args:  cobra.ExactArgs(2),
		RunE:  runSet,
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <android-sdk|android-ndk|java-sdk>",
		Short: "Remove a persisted preferred installation directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runClear,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(args[1]) == "" {
		return runClear(cmd, args[:1])
	}

	kind, err := sdk.ParseKind(args[0])
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.resolver.SetPreferredPath(kind, path); err != nil {
		return err
	}

	cmd.Printf("Preferred %s set to %s\n", displayName(kind), path)
	if !sess.resolver.Validate(kind, path) {
		spec, _ := sdk.Spec(kind)
		cmd.PrintErrf("warning: %s does not contain %s in %s; it will be skipped until it does\n", path, spec.Marker, spec.Subdir)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	kind, err := sdk.ParseKind(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.resolver.SetPreferredPath(kind, ""); err != nil {
		return err
	}
	cmd.Printf("Preferred %s cleared\n", displayName(kind))
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"sdklocator/internal/config"
	"sdklocator/internal/paths"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit locator configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigEditCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open config.yaml in $EDITOR",
		RunE:  runConfigEdit,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(homeDir)
	if err != nil {
		return err
	}
	if err := pp.EnsureRoot(); err != nil {
		return err
	}

	created, err := config.WriteDefault(pp.ConfigFile)
	if err != nil {
		return err
	}
	if created {
		cmd.PrintErrf("Wrote default configuration to %s\n", pp.ConfigFile)
	}

	argv := editorCommand(os.LookupEnv)
	argv = append(argv, pp.ConfigFile)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	editor := exec.CommandContext(ctx, argv[0], argv[1:]...)
	editor.Dir = pp.Root
	editor.Stdin, editor.Stdout, editor.Stderr = cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()
	if err := editor.Run(); err != nil {
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

// editorCommand picks VISUAL, then EDITOR, then the platform default.
// Values are split on whitespace, so "code -w" works.
func editorCommand(lookup func(string) (string, bool)) []string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if v, ok := lookup(name); ok {
			if fields := strings.Fields(v); len(fields) > 0 {
				return fields
			}
		}
	}
	if runtime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}

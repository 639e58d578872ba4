package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"sdklocator/internal/config"
	"sdklocator/internal/hostenv"
	"sdklocator/internal/logx"
	"sdklocator/internal/paths"
	"sdklocator/internal/sdk"
	"sdklocator/internal/store"
)

// hostEnv snapshots the machine; tests replace it with fixtures.
var hostEnv = hostenv.FromOS

// session bundles everything a command needs to resolve toolchains.
type session struct {
	paths      paths.AppPaths
	cfg        config.Config
	validation []config.ValidationResult
	store      store.Store
	resolver   *sdk.Resolver
	logger     *log.Logger
	closer     io.Closer
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// loadConfig resolves the state root and the effective configuration.
func loadConfig(cmd *cobra.Command) (paths.AppPaths, config.Config, error) {
	pp, err := paths.Resolve(homeDir)
	if err != nil {
		return paths.AppPaths{}, config.Config{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return pp, config.Config{}, err
	}

	v := config.NewViper()
	for key, flag := range map[string]string{
		config.KeyStoreBackend: "store",
		config.KeyStoreFile:    "store-file",
	} {
		if f := cmd.Flag(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return pp, config.Config{}, fmt.Errorf("bind --%s: %w", flag, err)
			}
		}
	}
	cfg.Overlay(v)
	return pp, cfg, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	pp, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	validation := cfg.Validate()
	if config.HasErrors(validation) {
		var msgs []string
		for _, r := range validation {
			if r.Level == "error" {
				msgs = append(msgs, r.Message)
			}
		}
		return nil, fmt.Errorf("invalid configuration %s: %s", pp.ConfigFile, strings.Join(msgs, "; "))
	}

	level, err := logx.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logOpts := logx.Options{Level: level, File: cfg.Log.FileEnabled()}
	if verbose {
		logOpts.Stderr = cmd.ErrOrStderr()
	}
	logger, closer, err := logx.New(pp, logOpts)
	if err != nil {
		return nil, err
	}

	storePath := pp.ResolveFile(cfg.Store.File)
	if storePath == "" {
		storePath = pp.StoreFile
	}
	st, err := store.Open(cfg.Store.Backend, storePath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	logger.Debug("session ready", "root", pp.Root, "backend", cfg.Store.Backend, "store", storePath)

	resolver := sdk.New(sdk.Options{
		Store:          st,
		Env:            cfg.Folders.Apply(hostEnv()),
		Log:            logx.Func(logger),
		OverrideKeyEnv: cfg.OverrideKeyEnv,
	})

	return &session{
		paths:      pp,
		cfg:        cfg,
		validation: validation,
		store:      st,
		resolver:   resolver,
		logger:     logger,
		closer:     closer,
	}, nil
}

// parseKinds parses CLI kind arguments; no arguments means every kind.
func parseKinds(args []string) ([]sdk.Kind, error) {
	if len(args) == 0 {
		return sdk.Kinds(), nil
	}
	kinds := make([]sdk.Kind, 0, len(args))
	for _, arg := range args {
		if strings.EqualFold(arg, "all") {
			return sdk.Kinds(), nil
		}
		kind, err := sdk.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func displayName(kind sdk.Kind) string {
	if spec, ok := sdk.Spec(kind); ok {
		return spec.DisplayName
	}
	return kind.String()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/spine/internal/config"
	"github.com/taigrr/spine/internal/logger"
	"github.com/taigrr/spine/pkg/viewer"
)

var (
	viewFPS     int
	viewVolumes bool
	viewNoHUD   bool
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Explore the spine interactively in the terminal",
	Long: `Open the interactive viewer. Drag to rotate, hover a region to highlight it,
click to open its details. The view section of the config file is reloaded
when the file changes.`,
	Args: cobra.NoArgs,
	RunE: runView,
}

func init() {
	viewCmd.Flags().IntVar(&viewFPS, "fps", 0, "target frames per second (overrides view.fps)")
	viewCmd.Flags().BoolVar(&viewVolumes, "volumes", false, "outline the region hit volumes")
	viewCmd.Flags().BoolVar(&viewNoHUD, "no-hud", false, "start with the HUD hidden")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	// Console output would tear through the alternate screen.
	if err := logger.InitFileOnly(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	if cmd.Flags().Changed("fps") {
		cfg.View.FPS = viewFPS
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if viewVolumes {
		cfg.View.ShowVolumes = true
	}
	if viewNoHUD {
		cfg.View.ShowHUD = false
	}

	term, err := viewer.OpenTerminal(logger.Named("terminal"), cfg.View.ShowHUD)
	if err != nil {
		return err
	}
	v := viewer.New(term, viewOptions(cfg))

	if path := config.Path(configPath); path != "" {
		w, err := config.Watch(path, config.DefaultDebounce, logger.Named("config"), func(c *config.Config) {
			v.SetAppearance(appearance(c))
			term.SetShowHUD(c.View.ShowHUD)
		})
		if err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	logger.Info("viewer started", zap.String("version", version))
	return term.Serve(cmd.Context(), v)
}

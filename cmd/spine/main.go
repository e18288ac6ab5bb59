// spine - interactive anatomical spine model for the terminal.
//
// Controls (view):
//
//	Mouse drag  - Rotate the column
//	Hover       - Highlight a region and show its tooltip
//	Click       - Select a region and open its detail panel
//	Scroll, +/- - Zoom in/out
//	R           - Reset rotation and zoom
//	V           - Outline the hit volumes
//	?           - Toggle HUD overlay
//	Esc         - Close the detail panel, or quit
//	Q           - Quit
package main

import (
	"context"
	"math"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/spine/internal/config"
	"github.com/taigrr/spine/internal/logger"
	"github.com/taigrr/spine/pkg/render"
	"github.com/taigrr/spine/pkg/viewer"
)

var version = "dev"

var (
	configPath string
	debug      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "spine",
	Short: "Procedural anatomical spine model with an interactive terminal viewer",
	Long: `spine builds a 3D model of the human vertebral column (24 vertebrae,
discs, sacrum and coccyx) and lets you explore its regions in the terminal,
export the geometry, or render still images.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if debug {
			c.Logging.Level = "debug"
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./spine.yaml or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
}

// initConsoleLogging sets up logging for the one-shot commands.
func initConsoleLogging() error {
	return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
}

func appearance(c *config.Config) viewer.Appearance {
	light := render.DefaultLight()
	light.Ambient = c.View.Ambient
	light.Diffuse = c.View.Diffuse
	return viewer.Appearance{
		Background:  c.View.Background.RGBA(),
		Light:       light,
		ShowVolumes: c.View.ShowVolumes,
	}
}

func viewOptions(c *config.Config) viewer.Options {
	return viewer.Options{
		Appearance:  appearance(c),
		FPS:         c.View.FPS,
		FOV:         c.Camera.FOV * math.Pi / 180,
		Distance:    c.Camera.Distance,
		MinDistance: c.Camera.MinDistance,
		MaxDistance: c.Camera.MaxDistance,
		ZoomStep:    c.Camera.ZoomStep,
		Logger:      logger.Named("viewer"),
	}
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

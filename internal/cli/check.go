package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/backmassage/trackweave/internal/check"
	"github.com/backmassage/trackweave/internal/config"
	"github.com/backmassage/trackweave/internal/ffmpeg"
	"github.com/backmassage/trackweave/internal/logging"
	"github.com/backmassage/trackweave/internal/status"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the environment without processing anything",
	Long: `check verifies that ffmpeg and ffprobe are installed and recent
enough, that the input directory is readable and the output directory is
writable, and estimates the working disk space a run would need.

Example:
  trackweave check -i ./clips -o ./out`,
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.StringP("input", "i", "", "input directory to verify")
	f.StringP("output", "o", "", "output directory to verify")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg := config.DefaultConfig()
	cfg.InputDir, _ = cmd.Flags().GetString("input")
	cfg.OutputDir, _ = cmd.Flags().GetString("output")

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return status.WrapValidation(err, "cannot initialize logging")
	}
	defer log.Close()

	if cfg.InputDir == "" || cfg.OutputDir == "" {
		// Engine-only check when no paths are given.
		version, err := check.VerifyEngine(context.Background(), ffmpeg.Run)
		if err != nil {
			log.Error("%v", err)
			return err
		}
		log.Info("engine: %s", version)
		log.Success("Engine check passed")
		return nil
	}

	if err := check.RunCheck(context.Background(), ffmpeg.Run, &cfg, log); err != nil {
		log.Error("%v", err)
		return err
	}
	log.Success("All checks passed")
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs-24-sw-8-04/scheduling/internal/daemon"
	"github.com/cs-24-sw-8-04/scheduling/internal/domain"
	"github.com/cs-24-sw-8-04/scheduling/internal/infra/store"
	"github.com/cs-24-sw-8-04/scheduling/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().IntP("algorithm", "a", -1, "Algorithm discriminator (0 naive, 1 global, 2 all permutations); defaults to the config value")
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the scheduling engine once and store the resulting events",
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	discriminator, _ := cmd.Flags().GetInt("algorithm")
	if discriminator < 0 {
		discriminator = cfg.Scheduler.Algorithm
	}
	alg, err := scheduler.ParseAlgorithm(discriminator)
	if err != nil {
		return err
	}
	delta, err := cfg.ProfileTimeDelta()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	profile := func(now time.Time) *domain.DiscreteGraph {
		values := append([]float64(nil), cfg.Profile.Values...)
		return domain.NewDiscreteGraph(values, delta, now.Truncate(delta))
	}
	// The debounce is irrelevant for a one-shot run.
	worker := daemon.NewWorker(st, st, profile, alg, time.Minute, logger)

	if err := worker.RunOnce(cmd.Context(), alg); err != nil {
		return err
	}

	fmt.Printf("scheduling run complete (%s)\n", alg)
	return nil
}

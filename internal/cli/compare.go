package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs-24-sw-8-04/scheduling/internal/sim"
)

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Int("rounds", 100, "Experiment rounds")
	compareCmd.Flags().Int("tasks", 8, "Tasks per round")
	compareCmd.Flags().Int64("seed", 0, "Random seed (0 uses the current time)")
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the residual cost of the three algorithms on random inputs",
	RunE:  runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	rounds, _ := cmd.Flags().GetInt("rounds")
	tasks, _ := cmd.Flags().GetInt("tasks")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := sim.DefaultCompareConfig()
	cfg.Rounds = rounds
	cfg.TasksPerRound = tasks

	result, err := sim.Compare(cfg, seed)
	if err != nil {
		return err
	}

	fmt.Printf("Naive result:           %.0f\n", result.Naive)
	fmt.Printf("Global result:          %.0f\n", result.Global)
	fmt.Printf("AllPermutations result: %.0f\n", result.AllPermutations)
	fmt.Printf("Naive is %.2f%% worse than AllPermutations\n",
		sim.PercentWorse(result.Naive, result.AllPermutations))
	fmt.Printf("Global is %.2f%% worse than AllPermutations\n",
		sim.PercentWorse(result.Global, result.AllPermutations))
	return nil
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cs-24-sw-8-04/scheduling/internal/sim"
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("url", "http://localhost:3000", "Base URL of the backend API")
	simulateCmd.Flags().Int("users", 100, "Accounts to register")
	simulateCmd.Flags().Int("devices", 3, "Maximum devices per account")
	simulateCmd.Flags().Int("tasks", 3, "Maximum tasks per device")
	simulateCmd.Flags().Int64("seed", 0, "Random seed (0 uses the current time)")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Seed a running backend with random accounts, devices and tasks",
	RunE:  runSimulate,
}

func runSimulate(cmd *cobra.Command, args []string) error {
	url, _ := cmd.Flags().GetString("url")
	users, _ := cmd.Flags().GetInt("users")
	devices, _ := cmd.Flags().GetInt("devices")
	tasks, _ := cmd.Flags().GetInt("tasks")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := sim.DefaultFactoryConfig(time.Now().UTC())
	cfg.Users = users
	cfg.DevicesPerUser = devices
	cfg.MaxTasks = tasks

	factory := sim.NewFactory(sim.NewClient(url), cfg, seed)
	ctx := cmd.Context()

	tokens, err := factory.GenerateUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("registered %d accounts\n", len(tokens))

	ownership, err := factory.GenerateDevices(ctx, tokens)
	if err != nil {
		return err
	}
	deviceCount := 0
	for _, ds := range ownership {
		deviceCount += len(ds)
	}
	fmt.Printf("created %d devices\n", deviceCount)

	taskOwnership, err := factory.GenerateTasks(ctx, ownership)
	if err != nil {
		return err
	}
	taskCount := 0
	for _, ts := range taskOwnership {
		taskCount += len(ts)
	}
	fmt.Printf("created %d tasks\n", taskCount)

	return nil
}

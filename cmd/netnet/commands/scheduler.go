package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/scheduler"
	"github.com/paweenawitch/Net-Net-Global-Scanner/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command group
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Runs or inspects the scheduler daemon.

Registered jobs:
  shortlist_refresh - daily 02:00 UTC (rebuild candidate cache)
  fx_refresh        - daily 05:00 UTC (refresh FX rate table)
  screen            - daily 06:00 UTC (value the shortlist)

Example:
  go run ./cmd/netnet scheduler start
  go run ./cmd/netnet scheduler list
  go run ./cmd/netnet scheduler run fx_refresh`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered jobs",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Run a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobNow,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func buildScheduler(a *app) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)

	jobList := []scheduler.Job{
		jobs.NewShortlistRefreshJob(a.repo, a.builder, a.log),
		jobs.NewFXRefreshJob(a.fxProvider, a.log),
		jobs.NewScreenJob(a.repo, a.service, a.log),
	}
	for _, job := range jobList {
		if err := sched.AddJob(job); err != nil {
			return nil, fmt.Errorf("add job: %w", err)
		}
	}

	return sched, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.log.WithField("signal", sig.String()).Info("Shutdown signal received")
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	for _, name := range sched.GetAllJobs() {
		fmt.Println(name)
	}
	return nil
}

func runJobNow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := buildScheduler(a)
	if err != nil {
		return err
	}

	if err := sched.RunJob(args[0]); err != nil {
		return err
	}

	// RunJob is asynchronous; block until interrupted so the job can finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	return nil
}

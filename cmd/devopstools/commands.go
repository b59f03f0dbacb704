package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/samuelreed/devopstools/internal/dispatch"
)

// globalFlags are the values shared by every docker subcommand.
type globalFlags struct {
	Tag      string
	Project  string
	Service  string
	LogLevel string
}

// dispatchFunc runs one action. main wires it to a real Dispatcher; tests
// record the call instead.
type dispatchFunc func(ctx context.Context, g globalFlags, action dispatch.Action, opts dispatch.Options) error

var actionHelp = map[dispatch.Action]string{
	dispatch.ActionBuild:    "Docker-compose build",
	dispatch.ActionConfig:   "Docker-compose config",
	dispatch.ActionDown:     "Docker-compose down",
	dispatch.ActionExecBash: "Docker-compose exec bash",
	dispatch.ActionLogs:     "Docker-compose logs",
	dispatch.ActionPS:       "Docker-compose ps",
	dispatch.ActionPSQ:      "Docker-compose ps -q",
	dispatch.ActionStop:     "Docker-compose stop",
	dispatch.ActionUpD:      "Docker-compose up -d",
	dispatch.ActionGenerate: "Generate new docker container",
	dispatch.ActionRun:      "Docker-compose combine commands (build, up -d, logs)",
	dispatch.ActionRunBash:  "Run a throwaway container from the service image",
}

// newRootCommand builds the devopstools command tree.
func newRootCommand(run dispatchFunc) *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:           "devopstools",
		Short:         "Developer tooling for local container workflows",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	dockerCmd := &cobra.Command{
		Use:   "docker",
		Short: "Docker commands",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			_, err := dispatch.ParseAction(args[0])
			return err
		},
	}
	dockerCmd.PersistentFlags().StringVarP(&g.Tag, "tag", "t", "", "Image tag")
	dockerCmd.PersistentFlags().StringVarP(&g.Project, "project", "p", "", "Project name")
	dockerCmd.PersistentFlags().StringVarP(&g.Service, "service", "s", "", "Service name")
	root.AddCommand(dockerCmd)

	for _, action := range dispatch.Actions() {
		var opts dispatch.Options
		cmd := &cobra.Command{
			Use:   action.String(),
			Short: actionHelp[action],
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), g, action, opts)
			},
		}
		switch action {
		case dispatch.ActionGenerate:
			cmd.Flags().StringVarP(&opts.ImageName, "imagename", "i", "", "Image Name for docker container")
		case dispatch.ActionRun:
			cmd.Flags().BoolVarP(&opts.Build, "build", "b", false, "build")
			cmd.Flags().BoolVarP(&opts.Up, "upd", "u", false, "upd")
			cmd.Flags().BoolVarP(&opts.Logs, "logs", "l", false, "logs")
		case dispatch.ActionRunBash:
			cmd.Flags().StringVarP(&opts.Entrypoint, "entrypoint", "e", "bash", "Entrypoint")
		}
		dockerCmd.AddCommand(cmd)
	}

	return root
}

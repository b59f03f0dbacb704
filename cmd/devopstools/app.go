package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samuelreed/devopstools/internal/compose"
	"github.com/samuelreed/devopstools/internal/config"
	"github.com/samuelreed/devopstools/internal/dispatch"
	"github.com/samuelreed/devopstools/internal/docker"
	"github.com/samuelreed/devopstools/internal/execx"
	"github.com/samuelreed/devopstools/internal/logging"
	"github.com/samuelreed/devopstools/internal/prompt"
	"github.com/samuelreed/devopstools/internal/scaffold"
	"github.com/samuelreed/devopstools/internal/tag"
)

// runAction resolves the invocation and hands the action to a Dispatcher.
func runAction(ctx context.Context, g globalFlags, action dispatch.Action, opts dispatch.Options) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	level := settings.Log.Level
	if g.LogLevel != "" {
		level = g.LogLevel
	}
	log, err := logging.New(level, os.Stderr)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	resolver := config.NewResolver(settings)
	inv, err := resolver.Resolve(config.Overrides{Project: g.Project, Service: g.Service})
	if err != nil {
		return err
	}
	log.WithField("settings", settings).Debug("loaded settings")

	runner := execx.New(log)

	var source tag.Source
	switch settings.TagSource {
	case config.TagSourceGit:
		source = &tag.GitSource{Dir: cwd}
	default:
		source = &tag.HelperSource{Runner: runner, Script: settings.TagHelperPath(), Home: settings.Home}
	}

	d := dispatch.New(inv, g.Tag, dispatch.Deps{
		Validator: resolver,
		Tags:      tag.NewResolver(source, log),
		Builder:   compose.NewBuilder(settings.ComposeCommand),
		Runner:    runner,
		Docker: func(ctx context.Context) (docker.DockerClient, error) {
			c, err := docker.Connect(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
		Generator: &scaffold.Generator{
			TemplateDir:  settings.TemplatePath(),
			WorkDir:      cwd,
			DefaultImage: settings.DefaultImageName,
			Prompter:     prompt.New(os.Stdin, os.Stdout),
			Out:          os.Stdout,
			Log:          log,
		},
		Stdio: docker.StdStreams(),
		Out:   os.Stdout,
		Log:   log,
	})
	return d.Dispatch(ctx, action, opts)
}

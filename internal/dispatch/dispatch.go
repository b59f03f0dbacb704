// Package dispatch maps `devopstools docker` actions to orchestrator calls,
// interactive container sessions and the scaffold generator.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samuelreed/devopstools/internal/compose"
	"github.com/samuelreed/devopstools/internal/config"
	"github.com/samuelreed/devopstools/internal/docker"
	"github.com/samuelreed/devopstools/internal/execx"
)

// ExecShell is the command started by execbash.
var ExecShell = []string{"/bin/bash"}

// Options carries the per-action flags.
type Options struct {
	// run
	Build bool
	Up    bool
	Logs  bool
	// runbash
	Entrypoint string
	// generate
	ImageName string
}

// Validator checks the compose definition before the orchestrator runs.
type Validator interface {
	Validate(inv config.Invocation) error
}

// TagResolver resolves the image tag and exposes it as an env overlay.
type TagResolver interface {
	Resolve(ctx context.Context, override string) (string, error)
	Env() []string
}

// Generator runs the scaffold.
type Generator interface {
	Generate(imageName string) error
}

// Deps are the collaborators a Dispatcher drives.
type Deps struct {
	Validator Validator
	Tags      TagResolver
	Builder   *compose.Builder
	Runner    execx.Runner
	// Docker opens a runtime client for interactive sessions.
	Docker    func(ctx context.Context) (docker.DockerClient, error)
	Generator Generator
	Stdio     docker.Stdio
	Out       io.Writer
	Log       logrus.FieldLogger
}

type handler func(ctx context.Context, opts Options) error

// Dispatcher runs actions for one CLI invocation. Project and service are
// fixed at construction and shared by every command it builds.
type Dispatcher struct {
	Deps
	inv         config.Invocation
	tagOverride string
	handlers    map[Action]handler
}

// New returns a dispatcher for inv. tagOverride is the -t value, if any.
func New(inv config.Invocation, tagOverride string, deps Deps) *Dispatcher {
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	d := &Dispatcher{Deps: deps, inv: inv, tagOverride: tagOverride}
	d.handlers = map[Action]handler{
		ActionBuild:    d.composeHandler(compose.Build),
		ActionConfig:   d.composeHandler(compose.Config),
		ActionDown:     d.composeHandler(compose.Down),
		ActionLogs:     d.composeHandler(compose.Logs),
		ActionPS:       d.composeHandler(compose.PS),
		ActionPSQ:      d.composeHandler(compose.PSQ),
		ActionStop:     d.composeHandler(compose.Stop),
		ActionUpD:      d.composeHandler(compose.UpD),
		ActionExecBash: d.execBash,
		ActionGenerate: d.generate,
		ActionRun:      d.run,
		ActionRunBash:  d.runBash,
	}
	return d
}

// Invocation returns the session state, including the tag once resolved.
func (d *Dispatcher) Invocation() config.Invocation {
	return d.inv
}

// Dispatch runs the handler for action.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, opts Options) error {
	h, ok := d.handlers[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	d.Log.WithField("action", action.String()).Debug("dispatch")
	return h(ctx, opts)
}

// run executes build, then up -d, then logs. Only flagged steps run, and
// each step resolves its own context when it runs.
func (d *Dispatcher) run(ctx context.Context, opts Options) error {
	steps := []struct {
		enabled bool
		action  Action
	}{
		{opts.Build, ActionBuild},
		{opts.Up, ActionUpD},
		{opts.Logs, ActionLogs},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := d.handlers[s.action](ctx, opts); err != nil {
			return err
		}
	}
	return nil
}

// resolve validates the compose file and resolves the image tag.
func (d *Dispatcher) resolve(ctx context.Context) error {
	if err := d.Validator.Validate(d.inv); err != nil {
		return err
	}
	t, err := d.Tags.Resolve(ctx, d.tagOverride)
	if err != nil {
		return err
	}
	d.inv.ImageTag = t
	return nil
}

func (d *Dispatcher) base(ctx context.Context) ([]string, error) {
	if err := d.resolve(ctx); err != nil {
		return nil, err
	}
	args := d.Builder.Base(d.inv)
	d.Log.Debugf("compose base: %v", args)
	return args, nil
}

func (d *Dispatcher) composeCommand(ctx context.Context, sub compose.Subcommand) (execx.Command, error) {
	base, err := d.base(ctx)
	if err != nil {
		return execx.Command{}, err
	}
	args, err := d.Builder.ForAction(base, sub, d.inv.ServiceName)
	if err != nil {
		return execx.Command{}, err
	}
	cmd := execx.Command{Args: args, Env: d.Tags.Env()}
	d.Log.Info(cmd.String())
	return cmd, nil
}

func (d *Dispatcher) composeHandler(sub compose.Subcommand) handler {
	return func(ctx context.Context, _ Options) error {
		cmd, err := d.composeCommand(ctx, sub)
		if err != nil {
			return err
		}
		if sub.Streams() {
			return d.Runner.Stream(ctx, cmd)
		}
		out, err := d.Runner.Capture(ctx, cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(d.Out, strings.TrimRight(out, "\n"))
		return nil
	}
}

func (d *Dispatcher) execBash(ctx context.Context, _ Options) error {
	cmd, err := d.composeCommand(ctx, compose.PSQ)
	if err != nil {
		return err
	}
	out, err := d.Runner.Capture(ctx, cmd)
	if err != nil {
		return err
	}
	containerID := firstContainerID(out)
	if containerID == "" {
		return fmt.Errorf("no running container for service %q in project %q", d.inv.ServiceName, d.inv.ProjectName)
	}
	d.Log.Infof("container_id = %s", containerID)

	dc, err := d.Docker(ctx)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.ExecInteractive(ctx, containerID, ExecShell, d.Stdio)
}

var containerIDPattern = regexp.MustCompile(`^[0-9a-f]{12,64}$`)

// firstContainerID returns the first container id in `ps -q` output. The
// orchestrator may interleave warnings on stderr; those lines are skipped.
func firstContainerID(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); containerIDPattern.MatchString(line) {
			return line
		}
	}
	return ""
}

func (d *Dispatcher) runBash(ctx context.Context, opts Options) error {
	if err := d.resolve(ctx); err != nil {
		return err
	}
	f, err := compose.Load(d.inv.ComposeFile)
	if err != nil {
		return err
	}
	name, err := f.ServiceImage(d.inv.ServiceName)
	if err != nil {
		return err
	}
	image := name + ":" + d.inv.ImageTag

	dc, err := d.Docker(ctx)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := docker.RequireImage(ctx, dc, image); err != nil {
		return err
	}

	cfg := docker.NewDebugContainerConfig(d.inv.ProjectName, d.inv.ServiceName, image, opts.Entrypoint)
	d.Log.WithFields(logrus.Fields{"image": image, "entrypoint": cfg.Entrypoint}).Info("starting debug container")
	return docker.RunDebugContainer(ctx, dc, cfg, d.Stdio, func(id string) {
		fmt.Fprintf(d.Out, "container started: %s\n", id)
	})
}

func (d *Dispatcher) generate(_ context.Context, opts Options) error {
	if d.Generator == nil {
		return errors.New("generate: no scaffold generator configured")
	}
	return d.Generator.Generate(opts.ImageName)
}

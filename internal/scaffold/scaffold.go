// Package scaffold bootstraps a project's container configuration from a
// template directory.
package scaffold

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samuelreed/devopstools/internal/compose"
	"github.com/samuelreed/devopstools/internal/prompt"
)

var (
	// ErrPathInvalid is returned for an absolute destination folder.
	ErrPathInvalid = errors.New("destination folder must be relative, cannot start with '/'")
	// ErrTemplateMissing is returned when the template directory is absent.
	ErrTemplateMissing = errors.New("unable to find generate template path")
)

const (
	// DefaultDestFolder is offered when the operator gives no destination.
	DefaultDestFolder = "."
	// PrimaryService is the service whose image the scaffold rewrites.
	PrimaryService = "main"
	// ImageTagExpr is resolved by the orchestrator, not by devopstools.
	ImageTagExpr = "${image_tag}"
)

// ComposePath is the compose definition inside a scaffolded project.
var ComposePath = filepath.Join("docker-compose", "docker-compose.yml")

// Request is the operator's answers for one generate run.
type Request struct {
	DestFolder string
	ImageName  string
	Confirmed  bool
}

// Generator copies the template and injects the image reference.
type Generator struct {
	TemplateDir  string
	WorkDir      string
	DefaultImage string
	Prompter     prompt.Prompter
	Out          io.Writer
	Log          logrus.FieldLogger

	copyTree func(dst, src string) error
}

// Generate runs the interactive scaffold. A declined confirmation is not an
// error; nothing is written.
func (g *Generator) Generate(imageOverride string) error {
	req := Request{ImageName: imageOverride}

	dest, err := g.Prompter.Input("Please enter destination folder path ?", DefaultDestFolder)
	if err != nil {
		return err
	}
	if strings.HasPrefix(dest, "/") || filepath.IsAbs(dest) {
		return fmt.Errorf("%w: %s", ErrPathInvalid, dest)
	}
	if dest == "" {
		dest = DefaultDestFolder
	}
	req.DestFolder = dest

	destPath := filepath.Join(g.WorkDir, dest)
	req.Confirmed, err = prompt.Confirmf(g.Prompter, g.Out, "Do you wish to continue? (y/n)", "This will copy files to: %s", destPath)
	if err != nil {
		return err
	}
	if !req.Confirmed {
		g.logger().Info("generate cancelled")
		return nil
	}

	if info, err := os.Stat(g.TemplateDir); err != nil || !info.IsDir() {
		return fmt.Errorf("%w (%s)", ErrTemplateMissing, g.TemplateDir)
	}
	g.logger().WithFields(logrus.Fields{"from": g.TemplateDir, "to": destPath}).Info("copying template")
	if err := g.copy(destPath, g.TemplateDir); err != nil {
		return fmt.Errorf("copy template to %s: %w", destPath, err)
	}

	if req.ImageName == "" {
		name, err := g.Prompter.Input("Please enter image_name ?", g.DefaultImage)
		if err != nil {
			return err
		}
		req.ImageName = name
	}
	if req.ImageName == "" {
		req.ImageName = g.DefaultImage
	}

	return InjectImage(filepath.Join(destPath, ComposePath), req.ImageName)
}

// InjectImage points the primary service of the compose definition at
// <imageName>:${image_tag}.
func InjectImage(composeFile, imageName string) error {
	f, err := compose.Load(composeFile)
	if err != nil {
		return fmt.Errorf("load generated compose file: %w", err)
	}
	if err := f.SetServiceImage(PrimaryService, imageName+":"+ImageTagExpr); err != nil {
		return err
	}
	return f.Save()
}

func (g *Generator) copy(dst, src string) error {
	if g.copyTree != nil {
		return g.copyTree(dst, src)
	}
	return copyDir(dst, src)
}

func (g *Generator) logger() logrus.FieldLogger {
	if g.Log == nil {
		return logrus.StandardLogger()
	}
	return g.Log
}

package scaffold

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelreed/devopstools/internal/compose"
	"github.com/samuelreed/devopstools/internal/prompt"
)

const templateCompose = `services:
  main:
    image: registry/group/repo:latest
    build:
      context: ..
`

func newTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docker-compose"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ComposePath), []byte(templateCompose), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM alpine\n"), 0644))
	return dir
}

func newGenerator(t *testing.T, template string, answers ...string) (*Generator, *prompt.Scripted, *int) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	p := &prompt.Scripted{Answers: answers}
	copies := 0
	g := &Generator{
		TemplateDir:  template,
		WorkDir:      t.TempDir(),
		DefaultImage: "registry/group/repo",
		Prompter:     p,
		Out:          &bytes.Buffer{},
		Log:          logger,
	}
	g.copyTree = func(dst, src string) error {
		copies++
		return copyDir(dst, src)
	}
	return g, p, &copies
}

func readImage(t *testing.T, path string) string {
	t.Helper()
	f, err := compose.Load(path)
	require.NoError(t, err)
	img, err := f.Image(PrimaryService)
	require.NoError(t, err)
	return img
}

func TestGenerateWithOverride(t *testing.T) {
	g, p, copies := newGenerator(t, newTemplate(t), "app", "y")

	require.NoError(t, g.Generate("acme/app"))

	assert.Equal(t, 1, *copies)
	assert.Len(t, p.Questions, 2, "image name is not prompted when overridden")
	dest := filepath.Join(g.WorkDir, "app")
	assert.FileExists(t, filepath.Join(dest, "Dockerfile"))
	assert.Equal(t, "acme/app:${image_tag}", readImage(t, filepath.Join(dest, ComposePath)))
	assert.Contains(t, g.Out.(*bytes.Buffer).String(), "This will copy files to: "+dest)
}

func TestGeneratePromptsForImage(t *testing.T) {
	g, p, _ := newGenerator(t, newTemplate(t), "", "y", "acme/web")

	require.NoError(t, g.Generate(""))

	assert.Len(t, p.Questions, 3)
	assert.Equal(t, "acme/web:${image_tag}", readImage(t, filepath.Join(g.WorkDir, ComposePath)))
}

func TestGenerateDefaultImage(t *testing.T) {
	g, _, _ := newGenerator(t, newTemplate(t), "out", "y", "")

	require.NoError(t, g.Generate(""))

	assert.Equal(t, "registry/group/repo:${image_tag}", readImage(t, filepath.Join(g.WorkDir, "out", ComposePath)))
}

func TestGenerateRejectsAbsolutePathBeforeCopy(t *testing.T) {
	g, p, copies := newGenerator(t, newTemplate(t), "/etc/app", "y")

	err := g.Generate("acme/app")

	require.ErrorIs(t, err, ErrPathInvalid)
	assert.Equal(t, 0, *copies)
	assert.Len(t, p.Questions, 1, "no confirmation is asked")
}

func TestGenerateDeclined(t *testing.T) {
	g, _, copies := newGenerator(t, newTemplate(t), "app", "n")

	require.NoError(t, g.Generate("acme/app"))

	assert.Equal(t, 0, *copies)
	assert.NoDirExists(t, filepath.Join(g.WorkDir, "app"))
}

func TestGenerateTemplateMissing(t *testing.T) {
	g, _, copies := newGenerator(t, filepath.Join(t.TempDir(), "generator"), "app", "y")

	err := g.Generate("acme/app")

	require.ErrorIs(t, err, ErrTemplateMissing)
	assert.Equal(t, 0, *copies)
}

func TestGenerateLogsCopy(t *testing.T) {
	logger, hook := test.NewNullLogger()
	g, _, _ := newGenerator(t, newTemplate(t), "app", "y")
	g.Log = logger

	require.NoError(t, g.Generate("acme/app"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "copying template", entry.Message)
}

func TestInjectImageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docker-compose.yml")
	require.NoError(t, os.WriteFile(path, []byte(templateCompose), 0644))

	require.NoError(t, InjectImage(path, "acme/app"))

	assert.Equal(t, "acme/app:${image_tag}", readImage(t, path))
}

func TestGenerateOverwritesExistingTemplateFiles(t *testing.T) {
	g, _, _ := newGenerator(t, newTemplate(t), "", "y")
	require.NoError(t, os.WriteFile(filepath.Join(g.WorkDir, "Dockerfile"), []byte("FROM scratch\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(g.WorkDir, "README.md"), []byte("keep\n"), 0644))

	require.NoError(t, g.Generate("acme/app"))

	data, err := os.ReadFile(filepath.Join(g.WorkDir, "Dockerfile"))
	require.NoError(t, err)
	assert.Equal(t, "FROM alpine\n", string(data))
	assert.FileExists(t, filepath.Join(g.WorkDir, "README.md"))
	assert.Equal(t, "acme/app:${image_tag}", readImage(t, filepath.Join(g.WorkDir, ComposePath)))
}

func TestGenerateTwiceInSameFolder(t *testing.T) {
	template := newTemplate(t)
	g, _, _ := newGenerator(t, template, "app", "y")
	require.NoError(t, g.Generate("acme/first"))

	g.Prompter = &prompt.Scripted{Answers: []string{"app", "y"}}
	require.NoError(t, g.Generate("acme/second"))

	assert.Equal(t, "acme/second:${image_tag}", readImage(t, filepath.Join(g.WorkDir, "app", ComposePath)))
}

func TestCopyDirPreservesModeAndNesting(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "scripts", "ci"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "scripts", "ci", "run.sh"), []byte("#!/bin/sh\n"), 0755))
	dst := filepath.Join(t.TempDir(), "out")

	require.NoError(t, copyDir(dst, src))

	info, err := os.Stat(filepath.Join(dst, "scripts", "ci", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

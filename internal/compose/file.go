package compose

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a compose definition loaded for inspection or editing.
// Edits go through the YAML node tree so comments and key order survive Save.
type File struct {
	Path string
	doc  yaml.Node
}

// Load reads and parses the compose definition at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := &File{Path: path}
	if err := yaml.Unmarshal(data, &f.doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.doc.Kind != yaml.DocumentNode || len(f.doc.Content) == 0 || f.doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top level is not a mapping", path)
	}
	return f, nil
}

// Image returns the image declared for service, exactly as written.
func (f *File) Image(service string) (string, error) {
	node, err := f.imageNode(service, false)
	if err != nil {
		return "", err
	}
	return node.Value, nil
}

// ServiceImage returns the service's image reference without its tag.
func (f *File) ServiceImage(service string) (string, error) {
	img, err := f.Image(service)
	if err != nil {
		return "", err
	}
	return StripTag(img), nil
}

// SetServiceImage replaces the image of service, creating the key if needed.
func (f *File) SetServiceImage(service, ref string) error {
	node, err := f.imageNode(service, true)
	if err != nil {
		return err
	}
	node.Kind = yaml.ScalarNode
	node.Tag = "!!str"
	node.Value = ref
	// ${...} must reach the orchestrator untouched; quote it.
	node.Style = yaml.DoubleQuotedStyle
	return nil
}

// Save writes the definition back to Path.
func (f *File) Save() error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f.doc); err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(f.Path, buf.Bytes(), mode)
}

func (f *File) imageNode(service string, create bool) (*yaml.Node, error) {
	root := f.doc.Content[0]
	services := lookup(root, "services")
	if services == nil || services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: no services defined", f.Path)
	}
	svc := lookup(services, service)
	if svc == nil || svc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: service %q not defined", f.Path, service)
	}
	img := lookup(svc, "image")
	if img == nil {
		if !create {
			return nil, fmt.Errorf("%s: service %q has no image", f.Path, service)
		}
		img = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str"}
		svc.Content = append(svc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "image"}, img)
	}
	return img, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// StripTag removes a trailing :tag or @digest from an image reference. A
// colon before the last slash belongs to a registry port and is kept.
func StripTag(ref string) string {
	ref, _, _ = strings.Cut(ref, "@")
	i := strings.LastIndex(ref, ":")
	if i < 0 || strings.Contains(ref[i+1:], "/") {
		return ref
	}
	return ref[:i]
}

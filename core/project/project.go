// Package project reads and writes project files: a named set of tasks and
// resources in YAML or JSON.
package project

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/resplan/core/model"
)

// File is the on-disk form of a project.
type File struct {
	Name      string                `json:"name" yaml:"name"`
	Start     string                `json:"start,omitempty" yaml:"start,omitempty"`
	Resources []model.ResourceInput `json:"resources" yaml:"resources"`
	Tasks     []model.TaskInput     `json:"tasks" yaml:"tasks"`
}

// Project is a normalized, validated File.
type Project struct {
	Name      string
	Start     time.Time
	Resources []model.Resource
	Tasks     []model.Task
}

// FormatFromPath maps a file extension to "yaml" or "json".
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported project format: %s", ext)
	}
}

// Load reads a project file, choosing the decoder by extension.
func Load(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	pf, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

// Decode reads from r to decode a project File.
func Decode(r io.Reader, format string) (*File, error) {
	var pf File
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&pf); err != nil && err != io.EOF {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&pf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	return &pf, nil
}

// Encode writes f to w in the given format.
func Encode(w io.Writer, f *File, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// Save writes f to path, choosing the encoder by extension.
func Save(path string, f *File) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(out, f, format); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Resolve normalizes and validates the file. Resources without a capacity
// get defaultCapacity. Without an explicit start the project starts on the
// earliest task start.
func (f *File) Resolve(defaultCapacity float64) (*Project, error) {
	resources, err := model.NormalizeResources(f.Resources, defaultCapacity)
	if err != nil {
		return nil, err
	}
	tasks, err := model.NormalizeTasks(f.Tasks)
	if err != nil {
		return nil, err
	}
	p := &Project{Name: f.Name, Resources: resources, Tasks: tasks}
	if f.Start != "" {
		if p.Start, err = model.ParseDay(f.Start); err != nil {
			return nil, fmt.Errorf("project start: %w", err)
		}
	} else {
		p.Start = EarliestStart(tasks)
	}
	return p, nil
}

// EarliestStart returns the first start day among tasks, or the zero time.
func EarliestStart(tasks []model.Task) time.Time {
	var first time.Time
	for _, t := range tasks {
		if first.IsZero() || t.Start.Before(first) {
			first = t.Start
		}
	}
	return model.Day(first)
}

// ToFile converts p back to its on-disk form.
func (p *Project) ToFile() *File {
	f := &File{
		Name:      p.Name,
		Resources: make([]model.ResourceInput, len(p.Resources)),
		Tasks:     make([]model.TaskInput, len(p.Tasks)),
	}
	if !p.Start.IsZero() {
		f.Start = model.FormatDay(p.Start)
	}
	for i, r := range p.Resources {
		capacity := r.Capacity
		f.Resources[i] = model.ResourceInput{ID: r.ID, Name: r.Name, Capacity: &capacity}
	}
	for i, t := range p.Tasks {
		f.Tasks[i] = taskInput(t)
	}
	return f
}

func taskInput(t model.Task) model.TaskInput {
	in := model.TaskInput{
		ID:           t.ID,
		Name:         t.Name,
		Type:         string(t.Type),
		Start:        model.FormatDay(t.Start),
		End:          model.FormatDay(t.End),
		Dependencies: append([]string(nil), t.Dependencies...),
		Resources:    append([]string(nil), t.Resources...),
		Priority:     t.Priority,
		Status:       t.Status,
	}
	if t.Progress != 0 {
		progress := t.Progress
		in.Progress = &progress
	}
	if t.EstimatedHours != 0 {
		hours := t.EstimatedHours
		in.EstimatedHours = &hours
	}
	return in
}

// WithTasks returns a copy of p holding tasks instead of its own.
func (p *Project) WithTasks(tasks []model.Task) *Project {
	cp := *p
	cp.Tasks = model.CloneTasks(tasks)
	cp.Resources = append([]model.Resource(nil), p.Resources...)
	return &cp
}

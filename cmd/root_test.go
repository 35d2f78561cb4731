package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/resplan/core/baseline"
	"github.com/kilianp07/resplan/core/cpm"
	"github.com/kilianp07/resplan/core/leveling"
	"github.com/kilianp07/resplan/core/project"
	"github.com/kilianp07/resplan/core/utilization"
)

const demo = `name: demo
start: 2024-01-01
resources:
  - id: dev
    capacity: 8
tasks:
  - id: spec
    start: 2024-01-01
    end: 2024-01-02
    resources: [dev]
    estimated_hours: 16
  - id: api
    start: 2024-01-01
    end: 2024-01-02
    resources: [dev]
    estimated_hours: 16
  - id: release
    type: milestone
    start: 2024-01-05
    end: 2024-01-05
    dependencies: [spec, api]
`

type env struct {
	dir     string
	project string
	config  string
}

func setup(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{dir: dir, project: filepath.Join(dir, "demo.yaml"), config: filepath.Join(dir, "resplan.yaml")}
	require.NoError(t, os.WriteFile(e.project, []byte(demo), 0o644))
	cfg := "logging:\n  level: error\nstore:\n  backend: file\n  path: " + filepath.Join(dir, "baselines") + "\n"
	require.NoError(t, os.WriteFile(e.config, []byte(cfg), 0o644))
	return e
}

func run(t *testing.T, e env, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.config, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	e := setup(t)
	out, err := run(t, e, "analyze", e.project, "--format", "json")
	require.NoError(t, err)
	var a cpm.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	// milestones carry no duration and are left out of the analysis
	assert.Equal(t, 1, a.ProjectDuration)
	assert.ElementsMatch(t, []string{"spec", "api"}, a.CriticalPath)
}

func TestAnalyzeText(t *testing.T) {
	e := setup(t)
	out, err := run(t, e, "analyze", e.project)
	require.NoError(t, err)
	assert.Contains(t, out, "Critical path:")
}

func TestConflicts(t *testing.T) {
	e := setup(t)
	out, err := run(t, e, "conflicts", e.project)
	require.NoError(t, err)
	assert.Contains(t, out, "Conflicts: 2")
	assert.Contains(t, out, "spec,api")
}

func TestUtilizationWindow(t *testing.T) {
	e := setup(t)
	out, err := run(t, e, "-f", "json", "utilization", e.project, "--from", "2024-01-01", "--to", "2024-01-02")
	require.NoError(t, err)
	var rep utilization.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Resources, 1)
	assert.InDelta(t, 200.0, rep.Resources[0].UtilizationRate, 1e-9)

	_, err = run(t, e, "utilization", e.project, "--from", "someday")
	assert.Error(t, err)
}

func TestScheduleWritesProject(t *testing.T) {
	e := setup(t)
	dst := filepath.Join(e.dir, "leveled.json")
	out, err := run(t, e, "-f", "json", "schedule", e.project, "-o", dst)
	require.NoError(t, err)
	var res leveling.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Empty(t, res.Unresolved)

	f, err := project.Load(dst)
	require.NoError(t, err)
	p, err := f.Resolve(8)
	require.NoError(t, err)
	starts := map[string]string{}
	for _, task := range p.Tasks {
		starts[task.ID] = task.Start.Format("2006-01-02")
	}
	assert.Equal(t, "2024-01-01", starts["spec"])
	assert.Equal(t, "2024-01-03", starts["api"])
	assert.Equal(t, "2024-01-04", starts["release"])

	out, err = run(t, e, "conflicts", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "No resource conflicts.")
}

func TestValidateCycle(t *testing.T) {
	e := setup(t)
	cyclic := filepath.Join(e.dir, "cyclic.yaml")
	doc := strings.Replace(demo, "estimated_hours: 16\n  - id: api", "estimated_hours: 16\n    dependencies: [release]\n  - id: api", 1)
	require.NoError(t, os.WriteFile(cyclic, []byte(doc), 0o644))

	out, err := run(t, e, "validate", cyclic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
	assert.Contains(t, out, "cycle: release → spec → release")

	_, err = run(t, e, "schedule", cyclic)
	assert.Error(t, err)

	out, err = run(t, e, "validate", e.project)
	require.NoError(t, err)
	assert.Contains(t, out, "Project is valid.")
}

func TestBaselineLifecycle(t *testing.T) {
	e := setup(t)
	out, err := run(t, e, "-f", "json", "baseline", "create", e.project, "--name", "kickoff")
	require.NoError(t, err)
	var sum baseline.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Equal(t, "kickoff", sum.Name)
	assert.Equal(t, 3, sum.TaskCount)

	out, err = run(t, e, "baseline", "list")
	require.NoError(t, err)
	assert.Contains(t, out, sum.ID)

	moved := filepath.Join(e.dir, "moved.yaml")
	doc := strings.Replace(demo, "start: 2024-01-05\n    end: 2024-01-05", "start: 2024-01-12\n    end: 2024-01-12", 1)
	require.NoError(t, os.WriteFile(moved, []byte(doc), 0o644))

	out, err = run(t, e, "-f", "json", "baseline", "compare", moved, sum.ID, "--diff")
	require.NoError(t, err)
	var cmp comparisonOutput
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, 1, cmp.Statuses[baseline.StatusBehind])
	assert.Equal(t, 2, cmp.Statuses[baseline.StatusOnTrack])
	assert.Contains(t, cmp.Diff, "+release")
	assert.Empty(t, cmp.Missing)

	out, err = run(t, e, "baseline", "show", sum.ID)
	require.NoError(t, err)
	assert.Contains(t, out, `release "release" 2024-01-05..2024-01-05`)

	_, err = run(t, e, "baseline", "delete", sum.ID)
	require.NoError(t, err)
	_, err = run(t, e, "baseline", "show", sum.ID)
	assert.ErrorIs(t, err, baseline.ErrNotFound)
}

func TestUnknownFormat(t *testing.T) {
	e := setup(t)
	_, err := run(t, e, "-f", "xml", "analyze", e.project)
	assert.Error(t, err)
}

package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/flatten"
)

const testSchema = `
[[types]]
name = "Group"
extends = "Shape"
fields = [{ name = "children", kind = "array", type = "Shape" }]

[[types]]
name = "Shape"
fields = [{ name = "id" }, { name = "label", kind = "scalar" }]

[[types]]
name = "Circle"
extends = "Shape"
fields = [{ name = "radius", kind = "scalar" }]
`

const baseGraph = `{
  "root": {"$ref": "g1"},
  "types": {
    "g1": {"type": "Group", "label": "old", "children": [{"$ref": "c1"}]},
    "c1": {"type": "Circle", "radius": 1}
  }
}`

const incomingGraph = `{
  "root": {"$ref": "g2"},
  "types": {
    "g2": {"type": "Group", "label": "new", "children": [{"$ref": "c9"}]},
    "c9": {"type": "Circle", "radius": 7}
  }
}`

// testEnv writes the fixture files and isolates config from the environment.
func testEnv(t *testing.T) (dir, schemaPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))
	for _, name := range []string{"TYPEGRAPH_SCHEMA", "TYPEGRAPH_CACHE_BACKEND", "TYPEGRAPH_CACHE_DIR"} {
		t.Setenv(name, "") // restored after the test
		os.Unsetenv(name)
	}

	schemaPath = filepath.Join(dir, "schema.toml")
	require.NoError(t, os.WriteFile(schemaPath, []byte(testSchema), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.json"), []byte(baseGraph), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "incoming.json"), []byte(incomingGraph), 0o644))
	return dir, schemaPath
}

func execute(args ...string) error {
	return executeWith(io.Discard, LogInfo, args...)
}

// executeWith runs the CLI with log and status output going to w.
func executeWith(w io.Writer, level log.Level, args ...string) error {
	c := New(w, level)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestSchemaCommand(t *testing.T) {
	_, schemaPath := testEnv(t)

	assert.NoError(t, execute("schema", "--schema", schemaPath))
	assert.NoError(t, execute("schema", "--schema", schemaPath, "--type", "Circle"))

	err := execute("schema", "--schema", schemaPath, "--type", "Square")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownType), "got %v", err)

	err = execute("schema")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "missing schema: %v", err)
}

func TestCheckCommand(t *testing.T) {
	dir, schemaPath := testEnv(t)
	base := filepath.Join(dir, "base.json")

	assert.NoError(t, execute("check", "--schema", schemaPath, base))
	assert.NoError(t, execute("check", "--schema", schemaPath, "--root-type", "Shape", base))

	err := execute("check", "--schema", schemaPath, "--root-type", "Circle", base)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidType), "root type: %v", err)

	dangling := filepath.Join(dir, "dangling.json")
	require.NoError(t, os.WriteFile(dangling, []byte(`{"root": {"$ref": "x"}, "types": {}}`), 0o644))
	err = execute("check", "--schema", schemaPath, dangling)
	assert.True(t, errors.Is(err, errors.ErrCodeCorruptGraph), "dangling: %v", err)
}

func TestMergeCommand(t *testing.T) {
	dir, schemaPath := testEnv(t)
	out := filepath.Join(dir, "merged.json")

	require.NoError(t, execute("merge", "--schema", schemaPath,
		filepath.Join(dir, "base.json"), filepath.Join(dir, "incoming.json"), "-o", out))

	f, err := flatten.ImportJSON(out)
	require.NoError(t, err)
	assert.Equal(t, flatten.Ref{ID: "g1"}, f.Root, "base root identity is kept")
	assert.Equal(t, "new", f.Types["g1"]["label"])
	assert.Equal(t, int64(7), f.Types["c1"]["radius"], "child matched by position keeps its id")
	assert.NotContains(t, f.Types, "c9")
}

func TestMergeCommandExclude(t *testing.T) {
	dir, schemaPath := testEnv(t)
	out := filepath.Join(dir, "merged.json")

	require.NoError(t, execute("merge", "--schema", schemaPath, "--exclude", "Shape.label",
		filepath.Join(dir, "base.json"), filepath.Join(dir, "incoming.json"), "-o", out))

	f, err := flatten.ImportJSON(out)
	require.NoError(t, err)
	assert.Equal(t, "old", f.Types["g1"]["label"], "exclusion on Shape cascades to Group")

	err = execute("merge", "--schema", schemaPath, "--exclude", "label",
		filepath.Join(dir, "base.json"), filepath.Join(dir, "incoming.json"), "-o", out)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "bad selector: %v", err)
}

func TestRenderCommandDOT(t *testing.T) {
	dir, schemaPath := testEnv(t)
	out := filepath.Join(dir, "graph.dot")

	require.NoError(t, execute("render", "--schema", schemaPath, "-f", "dot", "-o", out, filepath.Join(dir, "base.json")))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"g1" -> "c1" [label="children[0]"];`)
}

func TestSnapshotCommands(t *testing.T) {
	dir, schemaPath := testEnv(t)
	cacheDir := filepath.Join(dir, "cache")
	common := []string{"--schema", schemaPath, "--cache-backend", "file", "--cache-dir", cacheDir}

	require.NoError(t, execute(append([]string{"snapshot", "save", "--tag", "v1", filepath.Join(dir, "base.json")}, common...)...))

	out := filepath.Join(dir, "loaded.json")
	require.NoError(t, execute(append([]string{"snapshot", "load", "v1", "-o", out}, common...)...))

	f, err := flatten.ImportJSON(out)
	require.NoError(t, err)
	assert.Equal(t, flatten.Ref{ID: "g1"}, f.Root)
	assert.Len(t, f.Types, 2)

	require.NoError(t, execute(append([]string{"snapshot", "tag", "latest", "v1"}, common...)...))
	require.NoError(t, execute(append([]string{"snapshot", "delete", "latest"}, common...)...))

	err = execute(append([]string{"snapshot", "load", "v1"}, common...)...)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "deleted snapshot: %v", err)

	err = execute(append([]string{"snapshot", "tag", "other", "snapshot:missing"}, common...)...)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "tag missing snapshot: %v", err)

	require.NoError(t, execute(append([]string{"cache", "clear"}, common...)...))
	entries, _ := os.ReadDir(cacheDir)
	assert.Empty(t, entries)
}

func TestCacheBackendValidation(t *testing.T) {
	_, schemaPath := testEnv(t)
	err := execute("schema", "--schema", schemaPath, "--cache-backend", "s3")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cache.backend"), "got %v", err)
}

func TestExampleFiles(t *testing.T) {
	testEnv(t)
	schemaPath := filepath.Join("..", "..", "examples", "shapes", "schema.toml")
	page := filepath.Join("..", "..", "examples", "shapes", "page.json")
	edited := filepath.Join("..", "..", "examples", "shapes", "edited.json")

	assert.NoError(t, execute("check", "--schema", schemaPath, "--root-type", "Group", page))
	assert.NoError(t, execute("check", "--schema", schemaPath, edited))

	out := filepath.Join(t.TempDir(), "merged.json")
	require.NoError(t, execute("merge", "--schema", schemaPath, page, edited, "-o", out))

	f, err := flatten.ImportJSON(out)
	require.NoError(t, err)
	assert.Equal(t, flatten.Ref{ID: "page"}, f.Root)
	assert.Equal(t, "Landing page", f.Types["page"]["label"])
	assert.Equal(t, int64(32), f.Types["logo"]["radius"])
	assert.NotContains(t, f.Types["toolbar"], "props", "fields absent from the incoming graph are removed")
}

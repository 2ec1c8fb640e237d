package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line in an empty directory and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VIZCORE_LOG_LEVEL", "error")
	t.Setenv("VIZCORE_DB_DRIVER", "memory")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(testContext(t))
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAxisCmd(t *testing.T) {
	testChdir(t, t.TempDir())

	out, err := run(t, "axis", "0", "0")
	require.NoError(t, err)
	assert.Equal(t, "range 0.0 .. 1.0, step 0.2\n0.0 0.2 0.4 0.6 0.8 1.0\n", out)

	out, err = run(t, "axis", "--", "-1e308", "1e308")
	require.NoError(t, err)
	assert.NotContains(t, out, "NaN")

	_, err = run(t, "axis", "x", "1")
	assert.ErrorContains(t, err, "min")

	_, err = run(t, "axis", "1")
	assert.Error(t, err)
}

func TestBoxPlotCmd(t *testing.T) {
	testChdir(t, t.TempDir())
	data := writeFile(t, "load.csv", "site,load\na,1\na,2\na,3\na,4\na,100\nb,4\nb,6\n")
	svg := filepath.Join(t.TempDir(), "load.svg")

	out, err := run(t, "boxplot", data, "--category", "site", "--value", "load",
		"--whisker", "tukey", "--outliers", "--out", svg)
	require.NoError(t, err)
	assert.Contains(t, out, "category")
	assert.Contains(t, out, "100")
	assert.FileExists(t, svg)

	out, err = run(t, "boxplot", data, "--category", "site", "--value", "load", "--where", "site=b")
	require.NoError(t, err)
	assert.NotContains(t, out, "100")

	_, err = run(t, "boxplot", data, "--category", "site", "--value", "load", "--where", "site")
	assert.ErrorContains(t, err, "COLUMN=VALUE")

	_, err = run(t, "boxplot", data, "--category", "site")
	assert.Error(t, err)
}

func TestSlicerCmd(t *testing.T) {
	testChdir(t, t.TempDir())
	data := writeFile(t, "geo.csv", `region,country,city
Europe,Netherlands,Amsterdam
Europe,Netherlands,Rotterdam
Europe,France,Paris
Asia,Japan,Tokyo
`)

	out, err := run(t, "slicer", data, "--levels", "region,country,city",
		"--mode", "multi", "--toggle", "Europe-0_France-1", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "+ [x] Europe  (Europe-0)\n")
	assert.Contains(t, out, "  + [x] France  (Europe-0_France-1)\n")
	assert.Contains(t, out, "  + [ ] Netherlands  (Europe-0_Netherlands-1)\n")
	assert.Contains(t, out, `filter: (region = "Europe" AND country = "France")`)

	out, err = run(t, "slicer", data, "--levels", "region,country,city")
	require.NoError(t, err)
	assert.Contains(t, out, "filter: none")
	assert.NotContains(t, out, "France")

	_, err = run(t, "slicer", data, "--levels", "region", "--mode", "all")
	assert.Error(t, err)
}

// testContext stands in for testing.T.Context (Go 1.24): the context is
// canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

// testChdir stands in for testing.T.Chdir (Go 1.24): it changes the working
// directory and restores it when the test finishes.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

//go:build linux

package toolexec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/wingrid/internal/metrics"
)

func writeFakeTool(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func fakePath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return dir
}

func TestRunCapturesOutput(t *testing.T) {
	dir := fakePath(t)
	writeFakeTool(t, dir, "wg-echo", `echo "line one"; echo; echo "line two"`)

	r := New(nil, nil).Run(time.Second, "wg-echo")

	require.True(t, r.OK)
	assert.Equal(t, "line one\n\nline two\n", r.Output)
	assert.Equal(t, []string{"line one", "line two"}, r.Lines())
}

func TestRunPassesArguments(t *testing.T) {
	dir := fakePath(t)
	writeFakeTool(t, dir, "wg-args", `echo "$1|$2"`)

	r := New(nil, nil).Run(time.Second, "wg-args", "-p", "42")

	require.True(t, r.OK)
	assert.Equal(t, "-p|42\n", r.Output)
}

func TestRunNonZeroExitIsEmpty(t *testing.T) {
	dir := fakePath(t)
	writeFakeTool(t, dir, "wg-fail", `echo partial; exit 3`)

	r := New(nil, nil).Run(time.Second, "wg-fail")

	assert.False(t, r.OK)
	assert.Empty(t, r.Output)
	assert.Nil(t, r.Lines())
}

func TestRunMissingToolIsEmpty(t *testing.T) {
	fakePath(t)
	m := metrics.New()

	r := New(nil, m).Run(time.Second, "wg-definitely-not-installed")

	assert.Equal(t, Result{}, r)
}

func TestRunTimeoutKillsProcessGroup(t *testing.T) {
	dir := fakePath(t)
	// The background sleep holds stdout open; only a group kill frees it.
	writeFakeTool(t, dir, "wg-hang", `sleep 30 & sleep 30`)

	start := time.Now()
	r := New(nil, nil).Run(200*time.Millisecond, "wg-hang")
	elapsed := time.Since(start)

	assert.False(t, r.OK)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestExistsIsNotCached(t *testing.T) {
	dir := fakePath(t)
	e := New(nil, nil)

	assert.False(t, e.Exists("wg-later"))
	writeFakeTool(t, dir, "wg-later", "exit 0")
	assert.True(t, e.Exists("wg-later"))
}

func TestStartReportsExitStatus(t *testing.T) {
	dir := fakePath(t)
	writeFakeTool(t, dir, "wg-quick", "exit 4")

	proc, err := New(nil, nil).Start(t.TempDir(), "wg-quick")
	require.NoError(t, err)
	assert.Greater(t, proc.PID, 0)

	select {
	case err := <-proc.Done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("child was not reaped")
	}
}

func TestStartUsesWorkingDirectory(t *testing.T) {
	dir := fakePath(t)
	work := t.TempDir()
	marker := filepath.Join(work, "here")
	writeFakeTool(t, dir, "wg-touch", "touch here")

	proc, err := New(nil, nil).Start(work, "wg-touch")
	require.NoError(t, err)

	select {
	case err := <-proc.Done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("child was not reaped")
	}
	assert.FileExists(t, marker)
}

func TestStartMissingTool(t *testing.T) {
	fakePath(t)

	_, err := New(nil, nil).Start("", "wg-definitely-not-installed")
	assert.Error(t, err)
}

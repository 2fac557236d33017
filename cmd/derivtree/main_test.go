package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bin is the path to the compiled binary, set by TestMain.
var bin string

func TestMain(m *testing.M) {
	// Build binary once for all tests.
	tmp, err := os.MkdirTemp("", "derivtree-cli-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	bin = filepath.Join(tmp, "derivtree")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.RemoveAll(tmp)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

// runCLI executes the binary in dir and returns stdout, stderr, exit code.
func runCLI(t *testing.T, dir, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	cmd.Stdin = strings.NewReader(stdin)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		require.True(t, ok, "exec error (not ExitError): %v", err)
		exitCode = exitErr.ExitCode()
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func TestCLI_ExitCodes(t *testing.T) {
	dir := t.TempDir()

	stdout, _, code := runCLI(t, dir, "", "generate", "aAb", "-T", "dot")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Derivation tree saved as 'derivation_tree.dot'.")
	assert.FileExists(t, filepath.Join(dir, "derivation_tree.dot"))

	stdout, _, code = runCLI(t, dir, "", "generate", "xyz", "-T", "dot")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "No valid derivation tree could be generated.")

	_, stderr, code := runCLI(t, dir, "", "generate", "a", "-T", "gif")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `error: unknown format "gif"`)
}

func TestCLI_PipedInput(t *testing.T) {
	dir := t.TempDir()

	stdout, _, code := runCLI(t, dir, "abc\n", "generate", "-o", "piped.dot")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, `yield "abc"`)
	assert.FileExists(t, filepath.Join(dir, "piped.dot"))
}

func TestCLI_Watch(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("interrupt signal delivery")
	}
	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "tree.dot")

	cmd := exec.Command(bin, "watch", input, "-o", output)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	var outBuf strings.Builder
	cmd.Stdout = &outBuf
	require.NoError(t, cmd.Start())
	defer cmd.Process.Kill()

	// Give the watcher time to register before the first write.
	time.Sleep(300 * time.Millisecond)

	require.NoError(t, os.WriteFile(input, []byte("aBc\n"), 0644))
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && strings.Contains(string(data), `label="B"`)
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, cmd.Process.Signal(os.Interrupt))
	require.NoError(t, cmd.Wait())
}

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"

	"github.com/eizes/gis-cli/pkg/apitest"
)

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCommand()
	root.SetArgs(args)

	stdoutReader, stdoutWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating stdout pipe: %v", err)
	}
	stderrReader, stderrWriter, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating stderr pipe: %v", err)
	}

	defer stdoutReader.Close()
	defer stderrReader.Close()

	originalStdout := os.Stdout
	originalStderr := os.Stderr
	originalColorOut := color.Output
	originalColorErr := color.Error

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter
	color.Output = stdoutWriter
	color.Error = stderrWriter
	root.SetOut(stdoutWriter)
	root.SetErr(stderrWriter)

	var wg sync.WaitGroup
	var outBuf, errBuf bytes.Buffer
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, _ = io.Copy(&outBuf, stdoutReader)
	}()

	go func() {
		defer wg.Done()
		_, _ = io.Copy(&errBuf, stderrReader)
	}()

	_, execErr := root.ExecuteC()

	stdoutWriter.Close()
	stderrWriter.Close()
	wg.Wait()

	os.Stdout = originalStdout
	os.Stderr = originalStderr
	color.Output = originalColorOut
	color.Error = originalColorErr

	return outBuf.String(), errBuf.String(), execErr
}

// writeBackendConfig writes a config file with a single default backend
// pointing to the fake server
func writeBackendConfig(t *testing.T, srv *apitest.Server, sessionID string) string {
	t.Helper()

	content := fmt.Sprintf(`backends:
  local:
    endpoint: "%s"
    session_id: "%s"
    ssl_verify: false
    timeout: 5
default: local
`, srv.URL, sessionID)

	return writeRawConfig(t, content)
}

func writeRawConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("writing raw config: %v", err)
	}
	return configPath
}

// withStdin feeds input to the commands run inside fn
func withStdin(t *testing.T, input string, fn func()) {
	t.Helper()

	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating stdin pipe: %v", err)
	}
	if _, err := writer.WriteString(input); err != nil {
		t.Fatalf("writing stdin: %v", err)
	}
	writer.Close()

	original := os.Stdin
	os.Stdin = reader
	defer func() {
		os.Stdin = original
		reader.Close()
	}()

	fn()
}

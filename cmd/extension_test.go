package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtensionMechanism(t *testing.T) {
	tempDir := t.TempDir()

	// pts-hello prints its arguments and the configuration it receives.
	helloSource := `
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	fmt.Printf("args=%s\n", strings.Join(os.Args[1:], ","))
	for _, name := range []string{"PTS_DATA_DIR", "PTS_STORE", "PTS_HORIZON_MONTHS", "PTS_VERBOSE"} {
		fmt.Printf("%s=%s\n", name, os.Getenv(name))
	}
	os.Exit(3)
}
`
	helloPath := filepath.Join(tempDir, ExtensionPrefix+"hello")
	srcFile := helloPath + ".go"
	if err := os.WriteFile(srcFile, []byte(helloSource), 0644); err != nil {
		t.Fatalf("Failed to write pts-hello source: %v", err)
	}
	build := exec.Command("go", "build", "-o", helloPath, srcFile)
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile pts-hello: %v", err)
	}

	ptsPath := filepath.Join(tempDir, "pts")
	build = exec.Command("go", "build", "-o", ptsPath, "../pts")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("Failed to compile pts binary: %v", err)
	}

	dataDir := filepath.Join(tempDir, "data")
	pts := exec.Command(ptsPath, "-data-dir", dataDir, "-store", "leveldb", "-v", "hello", "world", "-x")
	pts.Dir = tempDir
	pts.Env = []string{
		"PATH=" + tempDir + string(os.PathListSeparator) + os.Getenv("PATH"),
		"HOME=" + tempDir,
		"PTS_HORIZON_MONTHS=4",
	}
	var stdout, stderr bytes.Buffer
	pts.Stdout = &stdout
	pts.Stderr = &stderr

	err := pts.Run()
	var exitError *exec.ExitError
	if !errors.As(err, &exitError) || exitError.ExitCode() != 3 {
		t.Fatalf("pts hello = %v, want exit code 3\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
	}

	for _, want := range []string{
		"args=world,-x",
		fmt.Sprintf("PTS_DATA_DIR=%s", dataDir),
		"PTS_STORE=leveldb",
		"PTS_HORIZON_MONTHS=4",
		"PTS_VERBOSE=true",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, stdout.String())
		}
	}
}

func TestRunExtensionNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, code := RunExtension("nope", nil); found || code != 0 {
		t.Errorf("RunExtension(nope) = %v, %d, want false, 0", found, code)
	}
}

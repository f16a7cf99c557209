package main_test

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type commandResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	binaryName := "codemass_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	currentDirectory, directoryError := os.Getwd()
	if directoryError != nil {
		testSetup.Fatalf("Failed to get current working directory: %v", directoryError)
	}
	moduleRoot := filepath.Dir(filepath.Dir(currentDirectory))

	buildCommand := exec.Command("go", "build", "-o", binaryPath, "./cmd/codemass")
	buildCommand.Dir = moduleRoot
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testSetup.Fatalf("Failed to build binary in %s: %v\nBuild Output:\n%s", moduleRoot, buildErr, string(outputData))
	}
	return binaryPath
}

// #nosec G204
func runBinary(testSetup *testing.T, binaryPath string, workingDirectory string, arguments ...string) commandResult {
	testSetup.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), "HOME="+testSetup.TempDir())

	var standardOutputBuffer, standardErrorBuffer bytes.Buffer
	command.Stdout = &standardOutputBuffer
	command.Stderr = &standardErrorBuffer

	result := commandResult{}
	if runError := command.Run(); runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			testSetup.Fatalf("failed to run %s: %v", binaryPath, runError)
		}
		result.exitCode = exitError.ExitCode()
	}
	result.stdout = standardOutputBuffer.String()
	result.stderr = standardErrorBuffer.String()
	return result
}

func TestExitCodes(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("builds the binary")
	}
	binaryPath := buildBinary(testSetup)

	// Cases stop before the tokenizer is built, so no encoding download is needed.
	projectDirectory := testSetup.TempDir()
	if writeError := os.WriteFile(filepath.Join(projectDirectory, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o600); writeError != nil {
		testSetup.Fatalf("write fixture: %v", writeError)
	}
	emptyDirectory := testSetup.TempDir()

	testCases := []struct {
		name             string
		workingDirectory string
		arguments        []string
		expectedExitCode int
		expectedStdout   string
		expectedStderr   string
	}{
		{name: "version", workingDirectory: emptyDirectory, arguments: []string{"--version"}, expectedExitCode: 0, expectedStdout: "codemass version: "},
		{name: "list models", workingDirectory: emptyDirectory, arguments: []string{"--list-models"}, expectedExitCode: 0, expectedStdout: "Available Models:"},
		{name: "help", workingDirectory: emptyDirectory, arguments: []string{"--help"}, expectedExitCode: 0, expectedStdout: "--no-markdown"},
		{name: "too many arguments", workingDirectory: emptyDirectory, arguments: []string{"a", "b"}, expectedExitCode: 1},
		{name: "missing path", workingDirectory: emptyDirectory, arguments: []string{"absent"}, expectedExitCode: 1, expectedStderr: `Path "absent" does not exist`},
		{name: "unknown model", workingDirectory: projectDirectory, arguments: []string{"--model", "unknown-model"}, expectedExitCode: 1, expectedStderr: "Use --list-models to see available models"},
	}
	for _, testCase := range testCases {
		testSetup.Run(testCase.name, func(t *testing.T) {
			result := runBinary(t, binaryPath, testCase.workingDirectory, testCase.arguments...)
			if result.exitCode != testCase.expectedExitCode {
				t.Fatalf("expected exit code %d, got %d\nstdout:\n%s\nstderr:\n%s", testCase.expectedExitCode, result.exitCode, result.stdout, result.stderr)
			}
			if testCase.expectedStdout != "" && !strings.Contains(result.stdout, testCase.expectedStdout) {
				t.Fatalf("expected %q in stdout:\n%s", testCase.expectedStdout, result.stdout)
			}
			if testCase.expectedStderr != "" && !strings.Contains(result.stderr, testCase.expectedStderr) {
				t.Fatalf("expected %q in stderr:\n%s", testCase.expectedStderr, result.stderr)
			}
		})
	}
}

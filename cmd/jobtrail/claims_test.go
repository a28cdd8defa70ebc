package main

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimsCommands_RequireDatabase(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "list", args: []string{"claims", "list"}},
		{name: "add", args: []string{"claims", "add", "Led migration to Kubernetes"}},
		{name: "merge", args: []string{"claims", "merge", "11111111-1111-1111-1111-111111111111", "22222222-2222-2222-2222-222222222222"}},
		{name: "approve", args: []string{"claims", "approve"}},
		{name: "delete", args: []string{"claims", "delete", "11111111-1111-1111-1111-111111111111"}},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			cmd.Env = append(os.Environ(), "DATABASE_URL=")
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), "DATABASE_URL environment variable is required")
		})
	}
}

func TestClaimsCommands_ArgValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{
			name:        "add without text",
			args:        []string{"claims", "add"},
			errorString: "arg",
		},
		{
			name:        "merge with one ID",
			args:        []string{"claims", "merge", "11111111-1111-1111-1111-111111111111"},
			errorString: "arg",
		},
		{
			name:        "delete without ID",
			args:        []string{"claims", "delete"},
			errorString: "arg",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const routesManifest = `
checks:
  - id: closed
    variant: refuse
routers:
  - prefix: /api
    checks: [closed]
    endpoints:
      - {method: GET, path: "/things/{id}", handler: echo}
      - {method: POST, path: /things, handler: echo}
  - endpoints:
      - {method: GET, path: /open, handler: echo}
`

func TestRoutes(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.yaml")
	require.Nil(t, os.WriteFile(manifestPath, []byte(routesManifest), 0o600))

	cfgPath := filepath.Join(dir, "config.yaml")
	require.Nil(t, os.WriteFile(cfgPath, []byte("environment: TESTING\nlogLevel: ERROR\nmanifest: "+manifestPath+"\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"routes",
		"--prefix", "CHECKPOINT_CMD_TEST",
		"--env-file", filepath.Join(dir, "missing.env"),
		"--config", cfgPath,
	})

	// Act
	err := Execute()

	// Assert
	require.Nil(t, err)
	require.Equal(t, "GET /\nGET /api/things/{id}\nGET /metrics\nGET /open\nPOST /api/things\n", out.String())
}

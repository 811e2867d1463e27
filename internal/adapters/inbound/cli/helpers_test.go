package cli_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/twmigrate/twmigrate/internal/adapters/inbound/cli"
)

const projectSource = `<div className="bg-blue-500 p-4">
  <span className="text-[#ff6600] font-bold">Hi</span>
  <span className="text-[#ff6600]">Bye</span>
</div>
`

const violationStream = `[
  {"ruleId":"tailwind/no-raw-palette","ruleKey":"tailwind/no-raw-palette","severity":"error","filePath":"src/App.tsx","line":1,"column":17,"className":"bg-blue-500"},
  {"ruleId":"tailwind/no-arbitrary-color","ruleKey":"tailwind/no-arbitrary-color","severity":"warn","filePath":"src/App.tsx","line":2,"column":19,"className":"text-[#ff6600]","context":"brandAccent"},
  {"ruleId":"tailwind/no-arbitrary-color","ruleKey":"tailwind/no-arbitrary-color","severity":"warn","filePath":"src/App.tsx","line":3,"column":19,"className":"text-[#ff6600]","context":"brandAccent"}
]`

// setupProject lays out a minimal project: one source file plus the lint
// engine's violation stream.
func setupProject(t *testing.T) (dir, violationsPath string) {
	t.Helper()
	dir = t.TempDir()

	source := filepath.Join(dir, "src", "App.tsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(source), 0o755))
	require.NoError(t, os.WriteFile(source, []byte(projectSource), 0o644))

	violationsPath = filepath.Join(dir, "violations.json")
	require.NoError(t, os.WriteFile(violationsPath, []byte(violationStream), 0o644))
	return dir, violationsPath
}

func runCommand(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

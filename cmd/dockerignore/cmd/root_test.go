package cmd

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newContext lays out a build context with a .dockerignore and returns its root.
func newContext(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		".dockerignore": "*.tmp\n!important.tmp\nbuild/\n",
		"Dockerfile":    "FROM scratch\n",
		"main.go":       "package main\n",
		"a.tmp":         "tmp",
		"important.tmp": "keep",
		"build/out.o":   "obj",
		"src/x.go":      "package src\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func tarNames(t *testing.T, r io.Reader) []string {
	t.Helper()
	var names []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return names
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dockerignore dev\n", out)
}

func TestCheck(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "check", "-C", root, "a.tmp", "important.tmp", "build", "build/out.o", "main.go", ".idea/")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"excluded\ta.tmp",
		"included\timportant.tmp",
		"excluded\tbuild",
		"excluded\tbuild/out.o",
		"included\tmain.go",
		"excluded\t.idea/",
	}, "\n")+"\n", out)
}

func TestCheck_Verbose(t *testing.T) {
	root := newContext(t)

	// Built-in patterns take positions 1 and 2.
	out, _, err := run(t, "check", "-C", root, "-v", "a.tmp", "important.tmp", "main.go")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"excluded\ta.tmp\t3:*.tmp",
		"included\timportant.tmp\t4:!important.tmp",
		"included\tmain.go",
	}, "\n")+"\n", out)
}

func TestCheck_DirectoryNeedsExistingDirOrSlash(t *testing.T) {
	root := newContext(t)

	// "gen" does not exist in the context, so only the trailing slash marks
	// it as a directory.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dockerignore"), []byte("gen/\n"), 0o644))

	out, _, err := run(t, "check", "-C", root, "gen", "gen/")
	require.NoError(t, err)
	assert.Equal(t, "included\tgen\nexcluded\tgen/\n", out)
}

func TestCheck_CaseInsensitive(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "check", "-C", root, "A.TMP")
	require.NoError(t, err)
	assert.Equal(t, "included\tA.TMP\n", out)

	out, _, err = run(t, "check", "-C", root, "--case-insensitive", "A.TMP")
	require.NoError(t, err)
	assert.Equal(t, "excluded\tA.TMP\n", out)
}

func TestCheck_RequiresPath(t *testing.T) {
	_, _, err := run(t, "check", "-C", t.TempDir())
	require.Error(t, err)
}

func TestLs(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "ls", "-C", root)
	require.NoError(t, err)
	assert.Equal(t, ".dockerignore\nDockerfile\nimportant.tmp\nmain.go\nsrc/x.go\n", out)

	out, _, err = run(t, "ls", "-C", root, "--all")
	require.NoError(t, err)
	assert.Equal(t, ".dockerignore\nDockerfile\nimportant.tmp\nmain.go\nsrc/\nsrc/x.go\n", out)
}

func TestLs_NecessaryFilesSurvive(t *testing.T) {
	root := newContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dockerignore"), []byte("*\n"), 0o644))

	out, _, err := run(t, "ls", "-C", root)
	require.NoError(t, err)
	assert.Equal(t, ".dockerignore\nDockerfile\n", out)
}

func TestLs_PrunesExcludedDirectories(t *testing.T) {
	root := newContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dockerignore"), []byte("node_modules/\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg", "Dockerfile"), []byte("FROM scratch\n"), 0o644))

	out, stderr, err := run(t, "ls", "-C", root, "--debug")
	require.NoError(t, err)
	assert.NotContains(t, out, "node_modules")
	assert.Contains(t, stderr, "pruning excluded directory")
	assert.Contains(t, stderr, "path=node_modules")
}

func TestPatterns(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "patterns", "-C", root)
	require.NoError(t, err)
	assert.Equal(t, "**/.idea\n**/.vs\n*.tmp\n!important.tmp\nbuild/\n!/.dockerignore\n!/Dockerfile\n", out)
}

func TestPatterns_Compiled(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "patterns", "-C", root, "--no-builtins", "--compiled")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"1\t*.tmp\t",
		"2\t!important.tmp\tnegate",
		"3\tbuild/\tdirOnly",
		"4\t!/.dockerignore\tnegate,anchored",
		"5\t!/Dockerfile\tnegate,anchored",
	}, "\n")+"\n", out)
}

func TestPatterns_CustomDockerfile(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "patterns", "-C", root, "--no-builtins", "-f", "docker/app.Dockerfile")
	require.NoError(t, err)
	assert.Equal(t, "*.tmp\n!important.tmp\nbuild/\n!/.dockerignore\n!/docker/app.Dockerfile\n", out)
}

func TestPack_Stdout(t *testing.T) {
	root := newContext(t)

	out, _, err := run(t, "pack", "-C", root)
	require.NoError(t, err)

	names := tarNames(t, strings.NewReader(out))
	assert.Equal(t, []string{".dockerignore", "Dockerfile", "important.tmp", "main.go", "src/", "src/x.go"}, names)
}

func TestPack_File(t *testing.T) {
	root := newContext(t)
	archive := filepath.Join(t.TempDir(), "context.tar")

	out, _, err := run(t, "pack", "-C", root, "-o", archive)
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := os.Open(archive)
	require.NoError(t, err)
	defer f.Close()

	names := tarNames(t, f)
	assert.Contains(t, names, "main.go")
	assert.NotContains(t, names, "a.tmp")
	assert.NotContains(t, names, "build/out.o")
}

func TestEnvOverrides(t *testing.T) {
	root := newContext(t)
	t.Setenv("DOCKERIGNORE_CONTEXT", root)
	t.Setenv("DOCKERIGNORE_NO_BUILTINS", "true")

	out, _, err := run(t, "patterns")
	require.NoError(t, err)
	assert.Equal(t, "*.tmp\n!important.tmp\nbuild/\n!/.dockerignore\n!/Dockerfile\n", out)
}

func TestConfigFile(t *testing.T) {
	root := newContext(t)
	cfg := filepath.Join(t.TempDir(), "dockerignore.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("context: "+root+"\nno-builtins: true\nignore-file: .buildignore\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".buildignore"), []byte("*.go\n"), 0o644))

	out, _, err := run(t, "patterns", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "*.go\n!/.buildignore\n!/Dockerfile\n", out)

	// Flags win over the config file.
	out, _, err = run(t, "patterns", "--config", cfg, "--ignore-file", ".dockerignore")
	require.NoError(t, err)
	assert.Equal(t, "*.tmp\n!important.tmp\nbuild/\n!/.dockerignore\n!/Dockerfile\n", out)
}

func TestConfigFile_Missing(t *testing.T) {
	_, _, err := run(t, "patterns", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestDebugLogging(t *testing.T) {
	root := newContext(t)

	_, stderr, err := run(t, "patterns", "-C", root, "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "compiled patterns")
}

func TestWarningsAreLogged(t *testing.T) {
	root := newContext(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dockerignore"), []byte("!\n*.tmp\n"), 0o644))

	out, stderr, err := run(t, "check", "-C", root, "a.tmp")
	require.NoError(t, err)
	assert.Equal(t, "excluded\ta.tmp\n", out)
	assert.Contains(t, stderr, "ignoring pattern")
}

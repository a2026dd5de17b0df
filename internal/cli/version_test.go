package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relprep/relprep/internal/build"
)

func TestVersionCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GroupUtility, versionCmd.GroupID)
	assert.Contains(t, versionCmd.Aliases, "v")
	assert.NotNil(t, versionCmd.Flags().Lookup("plain"))
}

func TestPrintPlainVersion(t *testing.T) {
	t.Parallel()

	cmd, buf := newTestCommand(t)
	printPlainVersion(cmd)

	out := buf.String()
	assert.Contains(t, out, "relprep "+build.Version)
	assert.Contains(t, out, "commit: "+build.Commit)
	assert.Contains(t, out, "go: "+runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestPrintPrettyVersion_DevBuild(t *testing.T) {
	t.Parallel()

	require.True(t, build.IsDevBuild(), "tests run against unstamped dev binaries")

	cmd, buf := newTestCommand(t)
	printPrettyVersion(cmd)

	out := buf.String()
	assert.Contains(t, out, "relprep")
	assert.Contains(t, out, "development build")
	assert.Contains(t, out, runtime.Version())
}

func TestTruncateCommit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		commit string
		want   string
	}{
		"long hash truncated": {commit: "0123456789abcdef0123", want: "01234567"},
		"short hash kept":     {commit: "abc123", want: "abc123"},
		"unknown kept":        {commit: "unknown", want: "unknown"},
		"empty kept":          {commit: "", want: ""},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateCommit(tt.commit))
		})
	}
}

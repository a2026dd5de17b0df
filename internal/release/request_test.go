package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relerrors "github.com/relprep/relprep/internal/errors"
)

func TestParseArgs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args    []string
		want    Request
		wantErr bool
	}{
		"no arguments": {
			args:    nil,
			wantErr: true,
		},
		"empty version": {
			args:    []string{""},
			wantErr: true,
		},
		"version only": {
			args: []string{"1.2.0"},
			want: Request{Version: "1.2.0", Mode: ModePreview},
		},
		"version with execute flag": {
			args: []string{"1.2.0", "--execute"},
			want: Request{Version: "1.2.0", Mode: ModeExecute},
		},
		"abbreviated flag stays preview": {
			args: []string{"1.2.0", "--exec"},
			want: Request{Version: "1.2.0", Mode: ModePreview},
		},
		"flag without dashes stays preview": {
			args: []string{"1.2.0", "execute"},
			want: Request{Version: "1.2.0", Mode: ModePreview},
		},
		"uppercase flag stays preview": {
			args: []string{"1.2.0", "--EXECUTE"},
			want: Request{Version: "1.2.0", Mode: ModePreview},
		},
		"flag with trailing space stays preview": {
			args: []string{"1.2.0", "--execute "},
			want: Request{Version: "1.2.0", Mode: ModePreview},
		},
		"extra arguments ignored": {
			args: []string{"1.2.0", "--execute", "unused"},
			want: Request{Version: "1.2.0", Mode: ModeExecute},
		},
		"whitespace version accepted": {
			args: []string{"  "},
			want: Request{Version: "  ", Mode: ModePreview},
		},
		"flag-like first argument is the version": {
			args: []string{"--execute"},
			want: Request{Version: "--execute", Mode: ModePreview},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req, err := ParseArgs(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				cliErr := relerrors.AsCLIError(err)
				require.NotNil(t, cliErr)
				assert.Equal(t, relerrors.Argument, cliErr.Category)
				assert.Contains(t, cliErr.Message, "Missing new version")
				assert.Equal(t, Usage, cliErr.Usage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
		})
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "preview", ModePreview.String())
	assert.Equal(t, "execute", ModeExecute.String())
	assert.Equal(t, "preview", Mode(42).String())
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "previewed", StatusPreviewed.String())
	assert.Equal(t, "committed", StatusCommitted.String())
	assert.Equal(t, "no changes", StatusNoChanges.String())
}

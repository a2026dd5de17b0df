package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfiguration() *Configuration {
	return &Configuration{
		Changelog: ChangelogConfig{Path: "CHANGELOG.md"},
		Generator: GeneratorConfig{
			PreviewCmd:  "git-cliff --unreleased",
			GenerateCmd: "git-cliff --tag {{TAG}} --output {{OUTPUT}}",
		},
		Commit:   CommitConfig{MessageTemplate: "chore(release): prepare for {{VERSION}}"},
		History:  HistoryConfig{Enabled: true, MaxEntries: 50},
		StateDir: "/tmp/relprep-state",
	}
}

func TestValidateConfigValues(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate     func(*Configuration)
		wantErr    bool
		errContain string
	}{
		"valid config": {
			mutate: func(*Configuration) {},
		},
		"missing changelog path": {
			mutate:     func(c *Configuration) { c.Changelog.Path = "" },
			wantErr:    true,
			errContain: "is required",
		},
		"missing preview command": {
			mutate:     func(c *Configuration) { c.Generator.PreviewCmd = "" },
			wantErr:    true,
			errContain: "is required",
		},
		"commit template without version placeholder": {
			mutate:     func(c *Configuration) { c.Commit.MessageTemplate = "prepare release" },
			wantErr:    true,
			errContain: "{{VERSION}}",
		},
		"generate command without tag placeholder": {
			mutate:     func(c *Configuration) { c.Generator.GenerateCmd = "git-cliff --output {{OUTPUT}}" },
			wantErr:    true,
			errContain: "{{TAG}}",
		},
		"generate command without output placeholder": {
			mutate:     func(c *Configuration) { c.Generator.GenerateCmd = "git-cliff --tag {{TAG}}" },
			wantErr:    true,
			errContain: "{{OUTPUT}}",
		},
		"release command without version placeholder": {
			mutate:     func(c *Configuration) { c.Release.Command = "cargo release" },
			wantErr:    true,
			errContain: "{{VERSION}}",
		},
		"release command with version placeholder": {
			mutate: func(c *Configuration) { c.Release.Command = "cargo release {{VERSION}} --execute" },
		},
		"empty release command allowed": {
			mutate: func(c *Configuration) { c.Release.Command = "" },
		},
		"negative history max entries": {
			mutate:     func(c *Configuration) { c.History.MaxEntries = -5 },
			wantErr:    true,
			errContain: "at least 0",
		},
		"history limit over cap": {
			mutate:     func(c *Configuration) { c.History.MaxEntries = 20000 },
			wantErr:    true,
			errContain: "at most 10000",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfiguration()
			tt.mutate(cfg)

			err := ValidateConfigValues(cfg, "config.yml")

			if tt.wantErr {
				if err == nil {
					t.Fatal("ValidateConfigValues() = nil, want error")
				}
				if !strings.Contains(err.Error(), tt.errContain) {
					t.Errorf("error = %q, want to contain %q", err, tt.errContain)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateConfigValues() error: %v", err)
			}
		})
	}
}

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		missing bool
		wantErr bool
	}{
		"valid yaml": {
			content: "changelog:\n  path: CHANGELOG.md\n",
		},
		"empty file": {
			content: "",
		},
		"whitespace only": {
			content: "   \n\t\n",
		},
		"missing file": {
			missing: true,
		},
		"unclosed bracket": {
			content: "changelog:\n  path: [unclosed\n",
			wantErr: true,
		},
		"bad indentation": {
			content: "changelog:\npath: x\n  extra: y\n",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.yml")
			if !tt.missing {
				if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			}

			err := ValidateYAMLSyntax(path)
			if tt.wantErr && err == nil {
				t.Error("ValidateYAMLSyntax() = nil, want error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateYAMLSyntax() error: %v", err)
			}
		})
	}
}

func TestValidationErrorFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  ValidationError
		want string
	}{
		"with line and column": {
			err:  ValidationError{FilePath: "config.yml", Line: 5, Column: 3, Message: "bad value"},
			want: "config.yml:5:3: bad value",
		},
		"with field": {
			err:  ValidationError{FilePath: "config.yml", Field: "changelog.path", Message: "is required"},
			want: "config.yml: field 'changelog.path': is required",
		},
		"message only": {
			err:  ValidationError{FilePath: "config.yml", Message: "permission denied"},
			want: "config.yml: permission denied",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

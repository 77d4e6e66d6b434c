package wizard

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bebsworthy/startbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers questions in order. An empty answer accepts the default.
type scriptedPrompter struct {
	answers  []string
	confirms []bool
	asked    []string
}

func (p *scriptedPrompter) next(message, def string) string {
	p.asked = append(p.asked, message)
	if len(p.answers) == 0 {
		return def
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	if answer == "" {
		return def
	}
	return answer
}

func (p *scriptedPrompter) Select(message string, options []string, def string) (string, error) {
	return p.next(message, def), nil
}

func (p *scriptedPrompter) Input(message, def string, validate func(string) error) (string, error) {
	answer := p.next(message, def)
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *scriptedPrompter) Confirm(message string, def bool) (bool, error) {
	p.asked = append(p.asked, message)
	if len(p.confirms) == 0 {
		return def, nil
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

func load(t *testing.T, path string) *config.Config {
	t.Helper()
	cfg, err := (&config.Loader{}).Load(path)
	require.NoError(t, err)
	return cfg
}

func TestConfigWizard_AcceptDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultOutputPath)
	var out bytes.Buffer

	w := NewConfigWizardWithPrompter(&scriptedPrompter{}, &out)
	require.NoError(t, w.Run(path, false))

	assert.Equal(t, config.Default(), load(t, path))
	assert.Contains(t, out.String(), "Configuration saved to "+path)
}

func TestConfigWizard_CustomAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	p := &scriptedPrompter{answers: []string{
		"go",
		"go build -o bin/viewer ./cmd/viewer",
		"bin/viewer",
		"VIEWER_BENCH",
		"25",
		"30s",
	}}

	require.NoError(t, NewConfigWizardWithPrompter(p, &bytes.Buffer{}).Run(path, false))

	cfg := load(t, path)
	assert.Equal(t, "go", cfg.BuildCommand)
	assert.Equal(t, []string{"build", "-o", "bin/viewer", "./cmd/viewer"}, cfg.BuildArgs)
	assert.Equal(t, "bin/viewer", cfg.BinaryPath)
	assert.Equal(t, "VIEWER_BENCH", cfg.BenchEnvVar)
	assert.Equal(t, 25, cfg.Runs)
	assert.Equal(t, 30*time.Second, cfg.RunTimeout)
	assert.Len(t, p.asked, 6)
}

func TestConfigWizard_InvalidAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		wantErr string
	}{
		{"blank build command", []string{"", " "}, "a value is required"},
		{"bad env name", []string{"", "", "", "NOT-VALID"}, "not a valid environment variable name"},
		{"zero runs", []string{"", "", "", "", "0"}, "positive whole number"},
		{"bad timeout", []string{"", "", "", "", "", "soon"}, "positive duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultOutputPath)
			err := NewConfigWizardWithPrompter(&scriptedPrompter{answers: tt.answers}, &bytes.Buffer{}).Run(path, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			_, statErr := os.Stat(path)
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing is written on error")
		})
	}
}

func TestConfigWizard_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultOutputPath)
	require.NoError(t, os.WriteFile(path, []byte(`{"binary": "keep/me"}`), 0o600))

	t.Run("declined", func(t *testing.T) {
		var out bytes.Buffer
		p := &scriptedPrompter{confirms: []bool{false}}
		require.NoError(t, NewConfigWizardWithPrompter(p, &out).Run(path, false))

		assert.Contains(t, out.String(), "canceled")
		assert.Equal(t, "keep/me", load(t, path).BinaryPath)
	})

	t.Run("accepted", func(t *testing.T) {
		p := &scriptedPrompter{confirms: []bool{true}}
		require.NoError(t, NewConfigWizardWithPrompter(p, &bytes.Buffer{}).Run(path, false))
		assert.Equal(t, config.DefaultBinaryPath, load(t, path).BinaryPath)
	})

	t.Run("forced", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(`{"binary": "keep/me"}`), 0o600))
		p := &scriptedPrompter{}
		require.NoError(t, NewConfigWizardWithPrompter(p, &bytes.Buffer{}).Run(path, true))

		assert.Equal(t, config.DefaultBinaryPath, load(t, path).BinaryPath)
		assert.NotContains(t, p.asked, path+" already exists. Overwrite?")
	})
}

package completion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaCOEUR/bft/internal/compspec"
)

func TestParseCobraOutput_WithDirectives(t *testing.T) {
	tests := []struct {
		name                string
		input               string
		expectedSuggestions []Suggestion
		expectedDirective   int
	}{
		{
			name:  "directive FilterFileExt (8)",
			input: "json\nyaml\nyml\n:8",
			expectedSuggestions: []Suggestion{
				{Value: "json"},
				{Value: "yaml"},
				{Value: "yml"},
			},
			expectedDirective: 8,
		},
		{
			name:                "directive FilterDirs (16)",
			input:               ":16",
			expectedSuggestions: []Suggestion{},
			expectedDirective:   16,
		},
		{
			name:  "descriptions",
			input: "pods\tList pods\nservices\tList services\n:4\nCompletion ended with directive: ShellCompDirectiveNoFileComp\n",
			expectedSuggestions: []Suggestion{
				{Value: "pods", Description: "List pods"},
				{Value: "services", Description: "List services"},
			},
			expectedDirective: 4,
		},
		{
			name:  "combined directives (8+4=12)",
			input: "json\nyaml\n:12",
			expectedSuggestions: []Suggestion{
				{Value: "json"},
				{Value: "yaml"},
			},
			expectedDirective: 12,
		},
		{
			name:                "crlf line endings",
			input:               "apply\tApply a config\r\n:4\r\n",
			expectedSuggestions: []Suggestion{{Value: "apply", Description: "Apply a config"}},
			expectedDirective:   4,
		},
		{
			name:                "no directive",
			input:               "apply\n",
			expectedSuggestions: []Suggestion{{Value: "apply"}},
			expectedDirective:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions, directive := parseCobraOutput([]byte(tt.input))
			assert.Equal(t, tt.expectedSuggestions, suggestions)
			assert.Equal(t, tt.expectedDirective, directive)
		})
	}
}

func TestCobraSource_Supports(t *testing.T) {
	src := NewCobraSource([]string{"kubectl", "helm"})

	assert.True(t, src.Supports(build("kubectl g", 9), compspec.Default("kubectl")))
	assert.True(t, src.Supports(build("helm ", 5), &compspec.Spec{Strategy: compspec.StrategyRegistered}))
	assert.False(t, src.Supports(build("git ", 4), compspec.Default("git")))
	assert.False(t, src.Supports(build("kubectl", 7), &compspec.Spec{Strategy: compspec.StrategyCommand}))
	assert.False(t, NewCobraSource(nil).Supports(build("kubectl ", 8), compspec.Default("kubectl")))
}

func TestCobraSource_Complete(t *testing.T) {
	fake := &fakeExec{output: []byte("get\tDisplay resources\ngetter\n:6\n")}
	src := NewCobraSource([]string{"kubectl"})
	src.exec = fake.run

	got, err := src.Complete(context.Background(), build("kubectl ge", 10), compspec.Default("kubectl"))
	require.NoError(t, err)

	assert.Equal(t, "kubectl", fake.tool)
	assert.Equal(t, []string{"__complete", "ge"}, fake.args)
	require.Len(t, got, 2)
	assert.Equal(t, "Display resources", got[0].Description)
	assert.True(t, got[0].NoSpace, "directive 2 is set")
}

func TestCobraSource_EmptyArgument(t *testing.T) {
	fake := &fakeExec{output: []byte(":4\n")}
	src := NewCobraSource([]string{"helm"})
	src.exec = fake.run

	got, err := src.Complete(context.Background(), build("helm install ", 13), compspec.Default("helm"))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []string{"__complete", "install", ""}, fake.args)
}

func TestCobraSource_ErrorDirective(t *testing.T) {
	src := NewCobraSource([]string{"tool"})
	src.exec = (&fakeExec{output: []byte("oops\n:1\n")}).run

	got, err := src.Complete(context.Background(), build("tool ", 5), compspec.Default("tool"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCobraSource_FilterFileExt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.yaml"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	src := NewCobraSource([]string{"kubectl"})
	src.exec = (&fakeExec{output: []byte("yaml\njson\n:8\n")}).run

	line := "kubectl apply -f " + dir + "/"
	got, err := src.Complete(context.Background(), build(line, len(line)), compspec.Default("kubectl"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub") + "/",
	}, Values(got))
}

func TestCobraSource_FilterDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "charts"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chart.tgz"), nil, 0644))

	src := NewCobraSource([]string{"helm"})
	src.exec = (&fakeExec{output: []byte(":16\n")}).run

	line := "helm package " + dir + "/ch"
	got, err := src.Complete(context.Background(), build(line, len(line)), compspec.Default("helm"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "charts") + "/"}, Values(got))
	assert.True(t, got[0].NoSpace)
}

func TestDirArgument(t *testing.T) {
	assert.Equal(t, "word", dirArgument(nil, "word"))
	assert.Equal(t, "themes/", dirArgument([]Suggestion{{Value: "themes"}}, ""))
	assert.Equal(t, "themes/da", dirArgument([]Suggestion{{Value: "themes/"}}, "da"))
}

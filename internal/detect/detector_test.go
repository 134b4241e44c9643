package detect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

const reactManifest = `{"name": "web", "dependencies": {"react": "^18.2.0"}}`

func file(content string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(content)}
}

// TestDetect_Markers covers every marker combination, including the
// priority cases where several markers coexist.
func TestDetect_Markers(t *testing.T) {
	tests := []struct {
		name     string
		fsys     fstest.MapFS
		wantKind model.FrameworkKind
		wantRule string
	}{
		{
			name:     "empty directory",
			fsys:     fstest.MapFS{},
			wantKind: model.FrameworkNone,
		},
		{
			name:     "angular.json only",
			fsys:     fstest.MapFS{"angular.json": file("{}")},
			wantKind: model.FrameworkAngular,
			wantRule: "Inferred by presence of: angular.json",
		},
		{
			name:     "vue.config.js",
			fsys:     fstest.MapFS{"vue.config.js": file("module.exports = {}")},
			wantKind: model.FrameworkVue,
			wantRule: "Inferred by presence of: vue.config.js",
		},
		{
			name:     "src/main.js entry point",
			fsys:     fstest.MapFS{"src/main.js": file("")},
			wantKind: model.FrameworkVue,
			wantRule: "Inferred by presence of: src/main.js",
		},
		{
			name:     "next.config.js",
			fsys:     fstest.MapFS{"next.config.js": file("")},
			wantKind: model.FrameworkNext,
		},
		{
			name:     "react manifest only",
			fsys:     fstest.MapFS{"package.json": file(reactManifest)},
			wantKind: model.FrameworkReact,
			wantRule: "Inferred by dependency: react in package.json",
		},
		{
			name: "next config wins over react manifest",
			fsys: fstest.MapFS{
				"next.config.js": file(""),
				"package.json":   file(reactManifest),
			},
			wantKind: model.FrameworkNext,
		},
		{
			name: "angular wins over everything",
			fsys: fstest.MapFS{
				"angular.json":   file("{}"),
				"vue.config.js":  file(""),
				"next.config.js": file(""),
				"package.json":   file(reactManifest),
			},
			wantKind: model.FrameworkAngular,
		},
		{
			name: "vue entry point wins over next config",
			fsys: fstest.MapFS{
				"src/main.js":    file(""),
				"next.config.js": file(""),
			},
			wantKind: model.FrameworkVue,
		},
		{
			name:     "manifest without dependencies section",
			fsys:     fstest.MapFS{"package.json": file(`{"name": "cli-tool"}`)},
			wantKind: model.FrameworkNone,
		},
		{
			name:     "manifest without react",
			fsys:     fstest.MapFS{"package.json": file(`{"dependencies": {"express": "^4.0.0"}}`)},
			wantKind: model.FrameworkNone,
		},
		{
			name:     "react only in devDependencies",
			fsys:     fstest.MapFS{"package.json": file(`{"devDependencies": {"react": "^18.0.0"}}`)},
			wantKind: model.FrameworkNone,
		},
		{
			name:     "dependencies is not an object",
			fsys:     fstest.MapFS{"package.json": file(`{"dependencies": "none", "devDependencies": []}`)},
			wantKind: model.FrameworkNone,
		},
		{
			name:     "react found despite odd unrelated fields",
			fsys:     fstest.MapFS{"package.json": file(`{"name": 7, "devDependencies": [], "dependencies": {"react": "^18"}}`)},
			wantKind: model.FrameworkReact,
		},
		{
			name:     "manifest with comments and trailing comma",
			fsys:     fstest.MapFS{"package.json": file("{\n// app\n\"dependencies\": {\"react\": \"18\",},\n}")},
			wantKind: model.FrameworkReact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewDetector(tt.fsys).Detect()
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantRule != "" {
				assert.Equal(t, tt.wantRule, got.Rule)
			}
		})
	}
}

// TestDetect_MalformedManifest verifies that a package.json that is not
// JSON fails detection with ErrMalformedManifest and the manifest exit code.
func TestDetect_MalformedManifest(t *testing.T) {
	fsys := fstest.MapFS{"package.json": file("{{{ not json")}

	_, err := NewDetector(fsys).Detect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedManifest))

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitManifestInvalid, cliErr.Code)
}

// TestDetect_MalformedManifestIgnoredWhenMarkerMatches verifies that the
// manifest is never parsed when an earlier rule already matched.
func TestDetect_MalformedManifestIgnoredWhenMarkerMatches(t *testing.T) {
	fsys := fstest.MapFS{
		"angular.json": file("{}"),
		"package.json": file("{{{ not json"),
	}

	got, err := NewDetector(fsys).Detect()
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkAngular, got.Kind)
}

// TestNewDirDetector runs detection against a real directory on disk.
func TestNewDirDetector(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(reactManifest), 0644))

	got, err := NewDirDetector(dir).Detect()
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkReact, got.Kind)
}

// TestNewDirDetector_SrcIsAFile: a regular file named src cannot contain
// src/main.js, so the Vue rule must not fire and the manifest decides.
func TestNewDirDetector_SrcIsAFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src"), []byte("not a directory"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"dependencies":{"react":"^18"}}`), 0644))

	got, err := NewDirDetector(dir).Detect()
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkReact, got.Kind)
	assert.Equal(t, "Inferred by dependency: react in package.json", got.Rule)
}

func TestNewDirDetector_SrcIsAFileWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src"), nil, 0644))

	got, err := NewDirDetector(dir).Detect()
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkNone, got.Kind)
}

func TestDetect_ReportsProjectName(t *testing.T) {
	got, err := NewDetector(fstest.MapFS{"package.json": file(reactManifest)}).Detect()
	require.NoError(t, err)
	assert.Equal(t, "web", got.Project)

	got, err = NewDetector(fstest.MapFS{"package.json": file(`{"name": "api"}`)}).Detect()
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkNone, got.Kind)
	assert.Equal(t, "api", got.Project)

	got, err = NewDetector(fstest.MapFS{"angular.json": file("{}")}).Detect()
	require.NoError(t, err)
	assert.Empty(t, got.Project, "manifest is not read when a marker matches")
}

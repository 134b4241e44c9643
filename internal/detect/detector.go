package detect

import (
	"io/fs"
	"os"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// Detection is the result of probing a project directory.
type Detection struct {
	// Kind is the detected framework, FrameworkNone if nothing matched.
	Kind model.FrameworkKind

	// Rule describes which marker produced Kind, for verbose output.
	// Empty when Kind is FrameworkNone.
	Rule string

	// Project is the "name" field of package.json when the manifest was
	// read during detection, empty otherwise.
	Project string
}

// markerRule maps the presence of any of its files to a framework kind.
type markerRule struct {
	kind  model.FrameworkKind
	files []string
}

// markerRules are evaluated in order before the manifest rule. Order is
// significant: next.config.js wins over a React dependency in package.json
// because the manifest is probed last.
var markerRules = []markerRule{
	{kind: model.FrameworkAngular, files: []string{"angular.json"}},
	{kind: model.FrameworkVue, files: []string{"vue.config.js", "src/main.js"}},
	{kind: model.FrameworkNext, files: []string{"next.config.js"}},
}

// Detector probes a project directory for framework markers.
type Detector struct {
	fsys fs.FS
}

// NewDetector creates a Detector over fsys, which should be rooted at the
// project directory.
func NewDetector(fsys fs.FS) *Detector {
	return &Detector{fsys: fsys}
}

// NewDirDetector creates a Detector over the directory dir on disk.
func NewDirDetector(dir string) *Detector {
	return NewDetector(os.DirFS(dir))
}

// Detect returns the framework of the project. Only the first matching
// rule applies. A missing package.json is not an error; a malformed one is.
func (d *Detector) Detect() (Detection, error) {
	for _, rule := range markerRules {
		for _, name := range rule.files {
			if d.exists(name) {
				return Detection{
					Kind: rule.kind,
					Rule: "Inferred by presence of: " + name,
				}, nil
			}
		}
	}

	if !d.exists(ManifestFile) {
		return Detection{Kind: model.FrameworkNone}, nil
	}

	manifest, err := LoadManifest(d.fsys, ManifestFile)
	if err != nil {
		return Detection{}, err
	}
	if manifest.HasDependency("react") {
		return Detection{
			Kind:    model.FrameworkReact,
			Rule:    "Inferred by dependency: react in " + ManifestFile,
			Project: manifest.Name,
		}, nil
	}

	return Detection{Kind: model.FrameworkNone, Project: manifest.Name}, nil
}

// exists reports whether name can be stat'ed. Every stat error counts as
// absent, not only fs.ErrNotExist: when "src" is a regular file, probing
// "src/main.js" fails with ENOTDIR, and that project has no Vue entry point.
func (d *Detector) exists(name string) bool {
	_, err := fs.Stat(d.fsys, name)
	return err == nil
}

package detect

import (
	"fmt"
	"io/fs"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// ManifestFile is the npm package manifest probed by the React rule.
const ManifestFile = "package.json"

// Manifest is the subset of package.json consulted during detection.
//
// Only "name" and "dependencies" are read, and only when they have the
// expected JSON type. package.json files in the wild carry all kinds of
// tool-specific fields, and a field of an unexpected shape must not make
// an otherwise valid project undetectable. A "dependencies" value that is
// not an object is treated as no dependencies at all.
type Manifest struct {
	// Name is the package name, empty if absent or not a string.
	// It is reported in verbose output next to the detection rule.
	Name string

	// Dependencies maps package names to decoded version specifiers.
	// Values are kept as decoded JSON because only their truthiness
	// matters. Nil when the manifest has no "dependencies" object.
	Dependencies map[string]interface{}
}

// HasDependency reports whether the named runtime dependency is present
// with a truthy value. A manifest without a dependencies section has no
// dependencies.
func (m *Manifest) HasDependency(name string) bool {
	if m == nil || m.Dependencies == nil {
		return false
	}
	v, ok := m.Dependencies[name]
	if !ok {
		return false
	}
	return truthy(v)
}

// LoadManifest reads the manifest at path within fsys, strips JSONC
// comments and trailing commas, and extracts the fields of Manifest.
//
// A read failure is returned as-is (callers check fs.ErrNotExist).
// A document that is not valid JSON is returned as a CLIError with
// ExitManifestInvalid wrapping model.ErrMalformedManifest.
func LoadManifest(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, model.WrapCLIError(
			model.ExitManifestInvalid,
			fmt.Sprintf("failed to parse %s", path),
			fmt.Errorf("%w: not valid JSON", model.ErrMalformedManifest),
		)
	}

	var m Manifest
	if name := gjson.GetBytes(data, "name"); name.Type == gjson.String {
		m.Name = name.String()
	}
	// Keys are looked up by name, not by gjson path, so dependency names
	// containing dots or wildcards ("@types/node", "lodash.merge") are safe.
	if deps := gjson.GetBytes(data, "dependencies"); deps.IsObject() {
		m.Dependencies = make(map[string]interface{})
		deps.ForEach(func(key, value gjson.Result) bool {
			m.Dependencies[key.String()] = value.Value()
			return true
		})
	}

	return &m, nil
}

// truthy applies JavaScript truthiness to a decoded JSON value:
// null, false, "" and 0 are falsy; everything else is truthy.
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}

// Package detect identifies the frontend framework of a project directory.
//
// Detection inspects well-known marker files in a fixed priority order and
// stops at the first match:
//   - angular.json → angular
//   - vue.config.js or src/main.js → vue
//   - next.config.js → next
//   - package.json with a truthy dependencies.react → react
//
// All probes go through an fs.FS so the detector can run against an
// in-memory filesystem in tests. package.json is read as JSONC using
// github.com/tidwall/jsonc, then decoded with encoding/json.
package detect

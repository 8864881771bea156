package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Dir is the on-disk directory checked before the embedded copies, so specs
// can be edited without rebuilding.
var Dir = "prefabs"

//go:embed *.yaml fighters/*.yaml scripts/*.tengo
var Embedded embed.FS

// Load reads a spec file relative to the prefab root. A copy under Dir wins
// over the embedded one.
func Load(name string) ([]byte, error) {
	return read(clean(name))
}

// LoadScript reads a tengo script. Bare names resolve inside scripts/.
func LoadScript(name string) ([]byte, error) {
	rel := clean(name)
	if !strings.HasPrefix(rel, "scripts/") {
		rel = "scripts/" + rel
	}
	return read(rel)
}

// Characters lists the fighter names available, embedded and on disk.
func Characters() ([]string, error) {
	embedded, err := fs.Glob(Embedded, "fighters/*.yaml")
	if err != nil {
		return nil, err
	}
	onDisk, _ := filepath.Glob(filepath.Join(Dir, "fighters", "*.yaml"))

	seen := map[string]bool{}
	for _, p := range append(embedded, onDisk...) {
		seen[strings.TrimSuffix(path.Base(filepath.ToSlash(p)), ".yaml")] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func fighterPath(name string) string {
	return "fighters/" + strings.TrimSuffix(name, ".yaml") + ".yaml"
}

func read(rel string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return Embedded.ReadFile(rel)
}

// clean turns a user supplied path into one relative to the prefab root.
func clean(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, "./")
	return strings.TrimPrefix(s, "prefabs/")
}

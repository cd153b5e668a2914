package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// The tuning files and wave scripts ship inside the binary. A file of the
// same name under Dir shadows the built-in copy, which is what hot reload
// edits.
//
//go:embed *.yaml scripts/*.tengo
var builtin embed.FS

// Dir is the disk directory layered over the built-in prefabs.
var Dir = "prefabs"

// ErrBadName is returned for empty names and names that leave the prefab tree.
var ErrBadName = errors.New("prefabs: bad file name")

// Load reads a tuning file such as "wave.yaml" or "prefabs/wave.yaml".
func Load(name string) ([]byte, error) {
	return read(specPath, name)
}

// LoadScript reads a wave script. "ramp.tengo", "scripts/ramp.tengo" and
// "prefabs/scripts/ramp.tengo" all name the same file.
func LoadScript(name string) ([]byte, error) {
	return read(scriptPath, name)
}

// ModTime reports when the disk copy of a tuning file last changed. ok is
// false when only the built-in copy exists.
func ModTime(name string) (time.Time, bool) {
	rel, err := specPath(name)
	if err != nil {
		return time.Time{}, false
	}
	info, err := os.Stat(onDisk(rel))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func read(resolve func(string) (string, error), name string) ([]byte, error) {
	rel, err := resolve(name)
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(onDisk(rel)); err == nil {
		return data, nil
	}
	data, err := builtin.ReadFile(rel)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", rel, err)
	}
	return data, nil
}

func specPath(name string) (string, error) {
	rel := path.Clean(filepath.ToSlash(name))
	rel = strings.TrimPrefix(rel, "prefabs/")
	if rel == "." || !fs.ValidPath(rel) {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return rel, nil
}

func scriptPath(name string) (string, error) {
	rel, err := specPath(name)
	if err != nil {
		return "", err
	}
	return path.Join("scripts", strings.TrimPrefix(rel, "scripts/")), nil
}

func onDisk(rel string) string {
	return filepath.Join(Dir, filepath.FromSlash(rel))
}

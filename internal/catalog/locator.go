package catalog

import (
	"embed"
	"os"
	"path/filepath"
)

//go:embed data/*.json
var embedded embed.FS

// ReadFunc attempts to read one catalog file by base name.
type ReadFunc func(name string) ([]byte, error)

// Locator resolves catalog files across an ordered list of candidate
// sources. The first source that successfully reads a file wins; a
// source that fails is skipped silently.
type Locator struct {
	candidates []ReadFunc
}

// NewLocator builds a Locator from explicit candidates. The embedded
// defaults are always appended last.
func NewLocator(candidates ...ReadFunc) *Locator {
	return &Locator{
		candidates: append(candidates, readEmbedded),
	}
}

// DefaultLocator probes, in order: the directory named by JAVELIN_CATALOG_DIR,
// the working directory, $XDG_CONFIG_HOME/javelin (or ~/.config/javelin),
// and finally the embedded defaults.
func DefaultLocator() *Locator {
	var candidates []ReadFunc

	if dir := os.Getenv("JAVELIN_CATALOG_DIR"); dir != "" {
		candidates = append(candidates, readDir(dir))
	}
	candidates = append(candidates, readDir("."))

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		candidates = append(candidates, readDir(filepath.Join(configHome, "javelin")))
	}

	return NewLocator(candidates...)
}

// Read returns the contents of the first candidate that has the file.
func (l *Locator) Read(name string) ([]byte, bool) {
	for _, read := range l.candidates {
		if data, err := read(name); err == nil {
			return data, true
		}
	}
	return nil, false
}

func readDir(dir string) ReadFunc {
	return func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
}

func readEmbedded(name string) ([]byte, error) {
	return embedded.ReadFile("data/" + name)
}

package config

import "fmt"

// Loader owns the path a configuration came from and the current snapshot.
// A failed reload keeps the previous snapshot.
type Loader struct {
	path    string
	current *Config
}

// NewLoader performs the first load. Errors here are meant to be fatal.
func NewLoader(path string) (*Loader, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, current: cfg}, nil
}

// Current returns the active snapshot.
func (l *Loader) Current() *Config {
	return l.current
}

// Path returns the file the loader reads, or "" for embedded defaults.
func (l *Loader) Path() string {
	return l.path
}

// Reload re-reads the file. On error the previous snapshot stays active and is
// returned together with the error.
func (l *Loader) Reload() (*Config, error) {
	cfg, err := Load(l.path)
	if err != nil {
		return l.current, fmt.Errorf("reloading %q: %w", l.path, err)
	}
	l.current = cfg.WithWorld(l.current)
	return l.current, nil
}

package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads configuration from environment variables.
//
// PREFIX_SECTION_KEY maps to section.key, with the remaining words of the
// name joined by underscores: TILEGRID_RENDER_MAX_FPS sets render.max_fps.
// Explicit mappings take precedence over the derived path.
type EnvLoader struct {
	prefix   string
	mapping  map[string]string
	sections map[string]bool
	environ  func() []string
}

// NewEnvLoader creates an environment loader for variables starting with
// prefix, including the trailing underscore. When sections is not empty,
// derived paths outside those sections are ignored.
func NewEnvLoader(prefix string, sections ...string) *EnvLoader {
	l := &EnvLoader{
		prefix:   prefix,
		mapping:  make(map[string]string),
		sections: make(map[string]bool, len(sections)),
		environ:  os.Environ,
	}
	for _, s := range sections {
		l.sections[s] = true
	}
	return l
}

// AddMapping maps an environment variable to a dotted config path.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads the environment and returns a configuration map.
// Empty values are kept as empty strings.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, ok := l.mapping[name]
		if !ok {
			path, ok = l.envToPath(name)
			if !ok {
				continue
			}
		}
		setByPath(config, path, parseValue(value))
	}
	return config, nil
}

// envToPath converts TILEGRID_GRID_WIDTH to grid.width.
func (l *EnvLoader) envToPath(env string) (string, bool) {
	section, key, ok := strings.Cut(strings.TrimPrefix(env, l.prefix), "_")
	if !ok || section == "" || key == "" {
		return "", false
	}
	section = strings.ToLower(section)
	if len(l.sections) > 0 && !l.sections[section] {
		return "", false
	}
	return section + "." + strings.ToLower(key), true
}

// parseValue converts a string to a bool, integer or float when it looks
// like one, and otherwise returns it unchanged.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

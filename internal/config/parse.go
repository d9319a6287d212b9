package config

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	sectionRe  = regexp.MustCompile(`^\[\s*([A-Za-z0-9_.-]+)\s*\]$`)
	keyValueRe = regexp.MustCompile(`^([A-Za-z0-9_-]+)\s*=\s*(.*)$`)
)

// Document is a parsed config file: section -> key -> typed value.
// Values are string, bool, int64 or []string.
type Document struct {
	sections map[string]map[string]any
	// Skipped records keys whose value could not be decoded, as "section.key".
	Skipped []string
}

// Parse reads the constrained TOML subset used by spw-config.toml. It never
// fails on content: malformed lines are ignored and malformed values leave
// their key unset. Only I/O errors from r are returned.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{sections: make(map[string]map[string]any)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	section := ""
	var pendingKey string
	var pending []string

	for scanner.Scan() {
		line := strings.TrimSpace(stripComment(scanner.Text()))

		if pending != nil {
			pending = append(pending, line)
			if strings.Contains(line, "]") {
				doc.set(section, pendingKey, strings.Join(pending, "\n"))
				pending = nil
			}
			continue
		}

		if line == "" {
			continue
		}
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}
		m := keyValueRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key, raw := m[1], strings.TrimSpace(m[2])
		if strings.HasPrefix(raw, "[") && !strings.Contains(raw, "]") {
			pendingKey = key
			pending = []string{raw}
			continue
		}
		doc.set(section, key, raw)
	}
	if err := scanner.Err(); err != nil {
		return doc, fmt.Errorf("reading config: %w", err)
	}
	// An array left open at EOF is malformed.
	if pending != nil {
		doc.Skipped = append(doc.Skipped, qualify(section, pendingKey))
	}
	return doc, nil
}

// set decodes raw and stores it unless the key is already present.
func (d *Document) set(section, key, raw string) {
	keys, ok := d.sections[section]
	if !ok {
		keys = make(map[string]any)
		d.sections[section] = keys
	}
	if _, exists := keys[key]; exists {
		return
	}
	v, err := decodeValue(raw)
	if err != nil {
		d.Skipped = append(d.Skipped, qualify(section, key))
		return
	}
	keys[key] = v
}

// decodeValue decodes a single TOML value literal.
func decodeValue(raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty value")
	}
	var holder map[string]any
	if _, err := toml.Decode("v = "+raw, &holder); err != nil {
		return nil, err
	}
	switch v := holder["v"].(type) {
	case string, bool, int64:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("array element %v is not a string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// stripComment removes a trailing "# comment" that is not inside quotes.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			return line[:i]
		}
	}
	return line
}

func qualify(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}

// Get returns the value for section.key and whether it was set.
func (d *Document) Get(section, key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.sections[section][key]
	return v, ok
}

// Lookup resolves a dotted "section.key" path. The key is the last segment,
// so nested sections such as "skills.design.required" work.
func (d *Document) Lookup(path string) (any, bool) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return d.Get("", path)
	}
	return d.Get(path[:i], path[i+1:])
}

// String returns section.key as a string, or fallback.
func (d *Document) String(section, key, fallback string) string {
	v, ok := d.Get(section, key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return fallback
}

// Bool returns section.key as a bool, or fallback. Strings such as "yes" and
// "off" are accepted.
func (d *Document) Bool(section, key string, fallback bool) bool {
	v, ok := d.Get(section, key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		switch t {
		case 1:
			return true
		case 0:
			return false
		}
	case string:
		return ToBool(t, fallback)
	}
	return fallback
}

// Int returns section.key as an int, or fallback.
func (d *Document) Int(section, key string, fallback int) int {
	v, ok := d.Get(section, key)
	if !ok {
		return fallback
	}
	switch t := v.(type) {
	case int64:
		return int(t)
	case string:
		return ToInt(t, fallback)
	}
	return fallback
}

// Strings returns section.key as a string slice, or fallback.
func (d *Document) Strings(section, key string, fallback []string) []string {
	v, ok := d.Get(section, key)
	if !ok {
		return fallback
	}
	if s, ok := v.([]string); ok {
		return s
	}
	return fallback
}

// ToBool converts a string to bool. Unrecognized values return fallback.
func ToBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}

// ToInt converts a string to int. Unparseable values return fallback.
func ToInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

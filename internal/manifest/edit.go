package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNoPackageTable is returned when an edit targets a manifest without
	// a [package] table.
	ErrNoPackageTable = errors.New("no [package] table in Cargo.toml")
	// ErrDependencyNotFound is returned when a requirement edit finds no
	// entry for the dependency in any dependency table.
	ErrDependencyNotFound = errors.New("dependency not found in Cargo.toml")
)

// Touched records which dependency tables an edit rewrote.
type Touched struct {
	Normal bool
	Dev    bool
	Build  bool
}

// Any reports whether any table was rewritten.
func (t Touched) Any() bool {
	return t.Normal || t.Dev || t.Build
}

var (
	stringValueRegex  = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	inlinePackageLine = regexp.MustCompile(`^\s*package\s*=\s*\{`)
)

// SetPackageField sets key to the string value in the [package] table,
// replacing the existing entry in place or appending a new one at the end of
// the table. Both the standard table form and the inline
// `package = { ... }` form are handled; all other lines are preserved
// byte for byte.
func SetPackageField(src []byte, key, value string) ([]byte, error) {
	lines := strings.Split(string(src), "\n")

	for i, line := range lines {
		if inlinePackageLine.MatchString(line) {
			lines[i] = setInlineField(line, key, value)
			return []byte(strings.Join(lines, "\n")), nil
		}
	}

	start, end := tableBounds(lines, "package")
	if start < 0 {
		return nil, ErrNoPackageTable
	}
	for i := start + 1; i < end; i++ {
		if lineKey(lines[i]) == key {
			lines[i] = replaceStringValue(lines[i], key, value)
			return []byte(strings.Join(lines, "\n")), nil
		}
	}

	// Key absent: append after the table's last non-blank line.
	at := start
	for i := start + 1; i < end; i++ {
		if strings.TrimSpace(lines[i]) != "" {
			at = i
		}
	}
	entry := fmt.Sprintf("%s = %q", key, value)
	lines = append(lines[:at+1], append([]string{entry}, lines[at+1:]...)...)
	return []byte(strings.Join(lines, "\n")), nil
}

// dependency table names by kind
var depTables = []struct {
	name string
	mark func(*Touched)
}{
	{"dependencies", func(t *Touched) { t.Normal = true }},
	{"dev-dependencies", func(t *Touched) { t.Dev = true }},
	{"build-dependencies", func(t *Touched) { t.Build = true }},
}

// SetDependencyReq rewrites every requirement on the named dependency to
// req, across [dependencies], [dev-dependencies], and [build-dependencies].
// All three manifest shapes are preserved: the inline string
// (`dep = "1.2"`), the inline table (`dep = { version = "1.2", ... }`), and
// the full table (`[dependencies.dep]`). The returned Touched reports which
// tables were rewritten.
func SetDependencyReq(src []byte, name, req string) ([]byte, Touched, error) {
	lines := strings.Split(string(src), "\n")
	var touched Touched

	table := ""
	for i, line := range lines {
		if header, ok := tableHeader(line); ok {
			table = header
			// full-table shape: [dependencies.dep]
			for _, dt := range depTables {
				if header == dt.name+"."+name || header == dt.name+`."`+name+`"` {
					if setTableVersion(lines, i+1, req) {
						dt.mark(&touched)
					}
				}
			}
			continue
		}
		for _, dt := range depTables {
			if table != dt.name || lineKey(line) != name {
				continue
			}
			value := strings.TrimSpace(line[strings.Index(line, "=")+1:])
			switch {
			case strings.HasPrefix(value, "\""):
				lines[i] = replaceStringValue(line, name, req)
				dt.mark(&touched)
			case strings.HasPrefix(value, "{"):
				if updated, ok := setInlineVersion(line, req); ok {
					lines[i] = updated
					dt.mark(&touched)
				}
			}
		}
	}

	if !touched.Any() {
		return nil, Touched{}, fmt.Errorf("%w: %q", ErrDependencyNotFound, name)
	}
	return []byte(strings.Join(lines, "\n")), touched, nil
}

// tableBounds returns the line index of the [name] header and the index one
// past the table's last line, or (-1, -1) when absent.
func tableBounds(lines []string, name string) (int, int) {
	start := -1
	for i, line := range lines {
		header, ok := tableHeader(line)
		if !ok {
			continue
		}
		if start >= 0 {
			return start, i
		}
		if header == name {
			start = i
		}
	}
	if start >= 0 {
		return start, len(lines)
	}
	return -1, -1
}

func tableHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	return strings.Trim(trimmed, "[]"), true
}

// lineKey returns the key of a `key = value` line, with surrounding quotes
// stripped, or "" for lines that are not assignments.
func lineKey(line string) string {
	key, _, found := strings.Cut(line, "=")
	if !found {
		return ""
	}
	return strings.Trim(strings.TrimSpace(key), `"'`)
}

// replaceStringValue swaps the first quoted string after the `=` for value,
// leaving everything around it untouched.
func replaceStringValue(line, key, value string) string {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return fmt.Sprintf("%s = %q", key, value)
	}
	rest := line[eq+1:]
	loc := stringValueRegex.FindStringIndex(rest)
	if loc == nil {
		return line[:eq+1] + fmt.Sprintf(" %q", value)
	}
	return line[:eq+1] + rest[:loc[0]] + fmt.Sprintf("%q", value) + rest[loc[1]:]
}

// setInlineField updates key inside an inline table line, or appends it
// before the closing brace when absent.
func setInlineField(line, key, value string) string {
	re := regexp.MustCompile(`(` + regexp.QuoteMeta(key) + `\s*=\s*)"(?:[^"\\]|\\.)*"`)
	if re.MatchString(line) {
		return re.ReplaceAllString(line, `${1}`+fmt.Sprintf("%q", value))
	}
	brace := strings.LastIndex(line, "}")
	if brace < 0 {
		return line
	}
	return strings.TrimRight(line[:brace], " ") + fmt.Sprintf(", %s = %q }", key, value) + line[brace+1:]
}

// setInlineVersion updates the version entry of an inline dependency table.
// Entries without a version key (path-only dependencies) are left alone.
func setInlineVersion(line, req string) (string, bool) {
	re := regexp.MustCompile(`(version\s*=\s*)"(?:[^"\\]|\\.)*"`)
	if !re.MatchString(line) {
		return line, false
	}
	return re.ReplaceAllString(line, `${1}`+fmt.Sprintf("%q", req)), true
}

// setTableVersion updates the `version = "..."` line of a full dependency
// table starting after the header at index start.
func setTableVersion(lines []string, start int, req string) bool {
	for i := start; i < len(lines); i++ {
		if _, ok := tableHeader(lines[i]); ok {
			return false
		}
		if lineKey(lines[i]) == "version" {
			lines[i] = replaceStringValue(lines[i], "version", req)
			return true
		}
	}
	return false
}

package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/magiconair/properties"
)

const propertiesHeader = "ScaleRuler settings"

// PropertiesStore is a Store backed by a Java-style .properties file.
// Files are parsed with magiconair/properties and written with Java's
// escaping rules, so keys holding `=`, `:`, `#`, `!` or spaces survive a
// round trip and files written by earlier releases load unchanged.
type PropertiesStore struct {
	mu    sync.Mutex
	path  string
	props *properties.Properties
	now   func() time.Time
}

// NewPropertiesStore creates a store for the given file. Nothing is read
// until Load is called.
func NewPropertiesStore(path string) *PropertiesStore {
	return &PropertiesStore{
		path:  path,
		props: newProperties(),
		now:   time.Now,
	}
}

// DefaultPath returns the per-user settings file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".scaleruler.properties")
}

// Path returns the backing file path
func (s *PropertiesStore) Path() string {
	return s.path
}

func newProperties() *properties.Properties {
	p := properties.NewProperties()
	// Values are file paths and numbers, ${...} must stay literal
	p.DisableExpansion = true
	return p
}

// Get returns the value for key
func (s *PropertiesStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props.Get(key)
}

// Set stores value under key
func (s *PropertiesStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Cannot fail with expansion disabled
	_, _, _ = s.props.Set(key, value)
}

// Delete removes key
func (s *PropertiesStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.props.Delete(key)
}

// Load reads the backing file. A missing file yields an empty store.
func (s *PropertiesStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.props = newProperties()
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	p.DisableExpansion = true
	s.props = p
	return nil
}

// Persist writes every key to the backing file, creating its directory if needed
func (s *PropertiesStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "#%s\n#%s\n", propertiesHeader, s.now().Format(time.UnixDate))
	for _, key := range s.props.Keys() {
		value, _ := s.props.Get(key)
		buf.WriteString(escapeProperty(key, true))
		buf.WriteByte('=')
		buf.WriteString(escapeProperty(value, false))
		buf.WriteByte('\n')
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// escapeProperty escapes a key or value the way java.util.Properties.store
// does. Spaces are escaped everywhere in keys but only when leading in
// values. Characters outside the BMP are written as UTF-8, which the
// loader reads back unchanged.
func escapeProperty(text string, isKey bool) string {
	var b strings.Builder
	for i, r := range text {
		switch {
		case r == ' ':
			if isKey || i == 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(' ')
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\f':
			b.WriteString(`\f`)
		case strings.ContainsRune(`\=:#!`, r):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r < 0x20 || (r > 0x7e && r <= 0xffff && r != utf8.RuneError):
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

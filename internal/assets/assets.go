// Package assets resolves skin and texture files referenced by models.
package assets

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/aliasconv/pkg/pak"
)

// ErrNotFound is returned when no source holds the requested file.
var ErrNotFound = errors.New("asset not found")

// replaceable lists extensions whose files may be substituted by a TGA.
var replaceable = map[string]bool{".bmp": true, ".wal": true, ".pcx": true}

// source is a place files can be read from.
type source interface {
	Read(name string) ([]byte, error)
	Close() error
	Name() string
}

// dirSource reads files relative to a directory on disk.
type dirSource struct {
	root string
}

func (d *dirSource) Read(name string) ([]byte, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	return os.ReadFile(filepath.Join(d.root, filepath.FromSlash(clean)))
}

func (d *dirSource) Close() error { return nil }

func (d *dirSource) Name() string { return d.root }

// Manager searches directories and PAK archives for assets.
// Sources are searched in reverse order (last added = highest priority).
type Manager struct {
	sources []source
	cache   *Cache
	log     *zap.Logger
	mu      sync.RWMutex
}

// NewManager creates a new asset manager. A nil logger disables logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cache: NewCache(),
		log:   log,
	}
}

// AddDir adds a directory to the search path.
func (m *Manager) AddDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errors.Wrapf(err, "adding directory %s", dir)
	}
	if !info.IsDir() {
		return errors.Errorf("adding directory %s: not a directory", dir)
	}

	m.add(&dirSource{root: dir})
	return nil
}

// AddArchive adds a PAK archive to the search path.
func (m *Manager) AddArchive(file string) error {
	archive, err := pak.Open(file)
	if err != nil {
		return errors.Wrapf(err, "opening archive %s", file)
	}

	m.add(archive)
	return nil
}

// Add adds a directory or, for files with a .pak extension, an archive.
func (m *Manager) Add(p string) error {
	if strings.EqualFold(filepath.Ext(p), ".pak") {
		return m.AddArchive(p)
	}
	return m.AddDir(p)
}

func (m *Manager) add(s source) {
	m.mu.Lock()
	m.sources = append(m.sources, s)
	m.mu.Unlock()
	m.cache.Clear()
	m.log.Debug("asset source added", zap.String("source", s.Name()))
}

// Load loads a file by name. When a .bmp, .wal or .pcx file is missing, the
// .tga file of the same name is returned instead.
func (m *Manager) Load(name string) ([]byte, error) {
	data, err := m.load(name)
	if err == nil {
		return data, nil
	}

	ext := strings.ToLower(path.Ext(name))
	if replaceable[ext] {
		alt := strings.TrimSuffix(name, path.Ext(name)) + ".tga"
		if data, altErr := m.load(alt); altErr == nil {
			m.log.Debug("using replacement texture", zap.String("name", name), zap.String("replacement", alt))
			return data, nil
		}
	}
	return nil, err
}

func (m *Manager) load(name string) ([]byte, error) {
	key := normalizeName(name)
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.sources) - 1; i >= 0; i-- {
		data, err := m.sources[i].Read(name)
		if err == nil {
			m.cache.Set(key, data)
			return data, nil
		}
	}

	return nil, errors.Wrap(ErrNotFound, name)
}

// Sources returns the names of the search path entries, highest priority
// first.
func (m *Manager) Sources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.sources))
	for i := len(m.sources) - 1; i >= 0; i-- {
		names = append(names, m.sources[i].Name())
	}
	return names
}

// Close closes all archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sources {
		s.Close()
	}
	m.sources = nil
	m.cache.Clear()
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "\\", "/"))
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

package hwp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Storage is a directory-like node of a compound file.
type Storage interface {
	// Child returns the entry named exactly name directly below this storage.
	Child(name string) (Entry, bool)
}

// Entry is a named storage or stream inside a Storage.
type Entry interface {
	Name() string
	// Storage returns the entry as a storage; ok is false for streams.
	Storage() (s Storage, ok bool)
	// Size is the stream length in bytes, or 0 for a storage.
	Size() int64
	// StreamBytes returns the full content of a stream entry.
	StreamBytes() ([]byte, error)
}

// Container entry names.
const (
	EntryFileHeader = "FileHeader"
	EntryDocInfo    = "DocInfo"
	EntryBodyText   = "BodyText"
	EntryBinData    = "BinData"
)

// SectionEntryName returns the name of the stream holding section i.
func SectionEntryName(i int) string { return fmt.Sprintf("Section%d", i) }

// OpenCompoundFile reads the directory of an OLE compound file and returns
// its root storage. Stream contents are read on demand from ra.
func OpenCompoundFile(ra io.ReaderAt) (Storage, error) {
	r, err := mscfb.New(ra)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("%w: no root entry", ErrInvalidContainer)
	}
	root := newCFBStorage("")
	storages := map[string]*cfbStorage{"": root}
	storageAt := func(path []string) *cfbStorage {
		key := strings.Join(path, "/")
		s, ok := storages[key]
		if !ok {
			s = newCFBStorage(key)
			storages[key] = s
		}
		return s
	}
	// r.File[0] is the root entry; the rest follow in directory walk order.
	for _, f := range r.File[1:] {
		parent := storageAt(f.Path)
		if _, dup := parent.children[f.Name]; dup {
			continue
		}
		e := &cfbEntry{file: f}
		if f.FileInfo().IsDir() {
			e.storage = storageAt(append(append([]string(nil), f.Path...), f.Name))
		}
		parent.children[f.Name] = e
	}
	return root, nil
}

type cfbStorage struct {
	path     string
	children map[string]*cfbEntry
}

func newCFBStorage(path string) *cfbStorage {
	return &cfbStorage{path: path, children: make(map[string]*cfbEntry)}
}

func (s *cfbStorage) Child(name string) (Entry, bool) {
	e, ok := s.children[name]
	if !ok {
		return nil, false
	}
	return e, true
}

type cfbEntry struct {
	file    *mscfb.File
	storage *cfbStorage
}

func (e *cfbEntry) Name() string { return e.file.Name }

func (e *cfbEntry) Size() int64 {
	if e.storage != nil {
		return 0
	}
	return e.file.Size
}

func (e *cfbEntry) Storage() (Storage, bool) {
	if e.storage == nil {
		return nil, false
	}
	return e.storage, true
}

func (e *cfbEntry) StreamBytes() ([]byte, error) {
	if e.storage != nil {
		return nil, fmt.Errorf("%w: %s is a storage", ErrInvalidContainer, e.file.Name)
	}
	if e.file.Size <= 0 {
		return []byte{}, nil
	}
	buf := make([]byte, e.file.Size)
	n, err := e.file.ReadAt(buf, 0)
	if err != nil && !(errors.Is(err, io.EOF) && n == len(buf)) {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidContainer, e.file.Name, err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("%w: read %s: short read %d of %d", ErrInvalidContainer, e.file.Name, n, len(buf))
	}
	return buf, nil
}

// MemStorage is an in-memory Storage. A child is either a stream ([]byte) or
// a nested *MemStorage.
type MemStorage struct {
	children map[string]any
}

func NewMemStorage() *MemStorage {
	return &MemStorage{children: make(map[string]any)}
}

// SetStream adds or replaces a stream child.
func (m *MemStorage) SetStream(name string, data []byte) *MemStorage {
	m.children[name] = data
	return m
}

// Sub returns the storage child named name, creating it if needed.
func (m *MemStorage) Sub(name string) *MemStorage {
	if s, ok := m.children[name].(*MemStorage); ok {
		return s
	}
	s := NewMemStorage()
	m.children[name] = s
	return s
}

// Remove deletes a child of either kind.
func (m *MemStorage) Remove(name string) { delete(m.children, name) }

func (m *MemStorage) Child(name string) (Entry, bool) {
	v, ok := m.children[name]
	if !ok {
		return nil, false
	}
	return memEntry{name: name, v: v}, true
}

type memEntry struct {
	name string
	v    any
}

func (e memEntry) Name() string { return e.name }

func (e memEntry) Storage() (Storage, bool) {
	s, ok := e.v.(*MemStorage)
	return s, ok
}

func (e memEntry) Size() int64 {
	b, _ := e.v.([]byte)
	return int64(len(b))
}

func (e memEntry) StreamBytes() ([]byte, error) {
	b, ok := e.v.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a storage", ErrInvalidContainer, e.name)
	}
	return b, nil
}

// streamAt resolves a slash separated path of storages ending in a stream and
// returns its bytes. Missing or mistyped components are ErrMissingEntry.
func streamAt(root Storage, path string, maxSize uint64) ([]byte, error) {
	parts := strings.Split(path, "/")
	cur := root
	for i, name := range parts {
		e, ok := cur.Child(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEntry, strings.Join(parts[:i+1], "/"))
		}
		if i == len(parts)-1 {
			if _, isStorage := e.Storage(); isStorage {
				return nil, fmt.Errorf("%w: %s is not a stream", ErrMissingEntry, path)
			}
			if size := e.Size(); size < 0 || uint64(size) > maxSize {
				return nil, fmt.Errorf("%w: %s is %d bytes", ErrLimitExceeded, path, size)
			}
			return e.StreamBytes()
		}
		s, isStorage := e.Storage()
		if !isStorage {
			return nil, fmt.Errorf("%w: %s is not a storage", ErrMissingEntry, strings.Join(parts[:i+1], "/"))
		}
		cur = s
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingEntry, path)
}

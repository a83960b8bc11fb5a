// Package pak provides reading and writing of Quake PACK archives.
package pak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/aliasconv/pkg/encoding"
)

const (
	pakMagic  = "PACK"
	entrySize = 64
	nameSize  = 56
)

// Archive errors.
var (
	ErrInvalidMagic  = errors.New("invalid PACK magic")
	ErrCorruptTable  = errors.New("corrupt PACK directory")
	ErrFileNotFound  = errors.New("file not found")
	ErrNameTooLong   = errors.New("file name too long")
	ErrDuplicateName = errors.New("duplicate file name")
)

// Archive represents an opened PACK archive.
type Archive struct {
	file     *os.File
	header   Header
	fileList map[string]*Entry
}

// Header contains the PACK file header.
type Header struct {
	Magic       [4]byte
	TableOffset int32
	TableSize   int32
}

// Entry represents a file entry in the archive.
type Entry struct {
	Name   string
	Offset int32
	Size   int32
}

type rawEntry struct {
	Name   [nameSize]byte
	Offset int32
	Size   int32
}

// Open opens a PACK archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	archive := &Archive{
		file:     file,
		fileList: make(map[string]*Entry),
	}

	if err := archive.readHeader(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if err := archive.readFileTable(); err != nil {
		file.Close()
		return nil, fmt.Errorf("reading file table: %w", err)
	}

	return archive, nil
}

// Close closes the archive.
func (a *Archive) Close() error {
	if a.file != nil {
		return a.file.Close()
	}
	return nil
}

// Name returns the path the archive was opened from.
func (a *Archive) Name() string {
	return a.file.Name()
}

func (a *Archive) readHeader() error {
	if _, err := a.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Read(a.file, binary.LittleEndian, &a.header); err != nil {
		return err
	}
	if string(a.header.Magic[:]) != pakMagic {
		return ErrInvalidMagic
	}
	if a.header.TableOffset < 0 || a.header.TableSize < 0 || a.header.TableSize%entrySize != 0 {
		return fmt.Errorf("%w: offset %d size %d", ErrCorruptTable, a.header.TableOffset, a.header.TableSize)
	}
	return nil
}

func (a *Archive) readFileTable() error {
	info, err := a.file.Stat()
	if err != nil {
		return err
	}
	fileSize := info.Size()
	if int64(a.header.TableOffset)+int64(a.header.TableSize) > fileSize {
		return fmt.Errorf("%w: directory past end of file", ErrCorruptTable)
	}

	if _, err := a.file.Seek(int64(a.header.TableOffset), io.SeekStart); err != nil {
		return err
	}

	count := int(a.header.TableSize / entrySize)
	raw := make([]rawEntry, count)
	if err := binary.Read(a.file, binary.LittleEndian, raw); err != nil {
		return err
	}

	for _, r := range raw {
		if r.Offset < 0 || r.Size < 0 || int64(r.Offset)+int64(r.Size) > fileSize {
			return fmt.Errorf("%w: entry %q out of bounds", ErrCorruptTable, encoding.FixedString(r.Name[:]))
		}
		entry := &Entry{
			Name:   normalizePath(encoding.FixedString(r.Name[:])),
			Offset: r.Offset,
			Size:   r.Size,
		}
		// Later entries shadow earlier ones, like a patched directory.
		a.fileList[entry.Name] = entry
	}

	return nil
}

// List returns all file paths in the archive, sorted.
func (a *Archive) List() []string {
	result := make([]string, 0, len(a.fileList))
	for path := range a.fileList {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Contains checks if a file exists.
func (a *Archive) Contains(path string) bool {
	_, ok := a.fileList[normalizePath(path)]
	return ok
}

// Stat returns the directory entry for path.
func (a *Archive) Stat(path string) (*Entry, bool) {
	e, ok := a.fileList[normalizePath(path)]
	return e, ok
}

// Read reads a file from the archive. It is safe for concurrent use.
func (a *Archive) Read(path string) ([]byte, error) {
	entry, ok := a.fileList[normalizePath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	data := make([]byte, entry.Size)
	if _, err := a.file.ReadAt(data, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// File is a named blob stored by Write.
type File struct {
	Name string
	Data []byte
}

// Write stores files as a PACK archive. Names keep their order and must be
// unique after normalization.
func Write(w io.Writer, files []File) error {
	var body bytes.Buffer
	table := make([]rawEntry, 0, len(files))
	seen := make(map[string]bool, len(files))

	offset := int32(binary.Size(Header{}))
	for _, f := range files {
		name := normalizePath(f.Name)
		if len(encoding.UTF8ToLatin1(name)) >= nameSize {
			return fmt.Errorf("%w: %s", ErrNameTooLong, f.Name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, f.Name)
		}
		seen[name] = true

		var r rawEntry
		copy(r.Name[:], encoding.PutFixedString(name, nameSize))
		r.Offset = offset + int32(body.Len())
		r.Size = int32(len(f.Data))
		table = append(table, r)
		body.Write(f.Data)
	}

	h := Header{
		TableOffset: offset + int32(body.Len()),
		TableSize:   int32(len(table) * entrySize),
	}
	copy(h.Magic[:], pakMagic)

	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, table)
}

func normalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ToLower(strings.TrimPrefix(path, "/"))
}

package ports

import "errors"

// ErrNotExist is wrapped by Filesystem reads and removals of absent paths.
var ErrNotExist = errors.New("file does not exist")

// Filesystem provides the host file operations the capture core needs.
// Paths are slash-separated and relative to the host's game directory.
type Filesystem interface {
	Exists(path string) bool
	IsDirectory(path string) bool
	CreateDirectoryTree(path string) error

	// CountEntriesWithPrefix counts entries of directory whose name begins with prefix.
	CountEntriesWithPrefix(directory, prefix string) (int, error)

	// ReadLine returns the first line of path without its line terminator.
	ReadLine(path string) (string, error)
	// ReadLines returns every line of path without line terminators.
	ReadLines(path string) ([]string, error)

	WriteAll(path string, content []byte) error
	AppendAll(path string, content []byte) error
	Remove(path string) error
}

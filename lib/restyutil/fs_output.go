package restyutil

import (
	devenv "dualis-watch/dev/env"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FilesystemOutput writes every exchange into its own file of a directory,
// the directory is emptied when the output is created.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, fmt.Sprintf("%s.http", id)), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}

// MemoryOutput keeps exchanges in memory, it is used by tests.
type MemoryOutput struct {
	mutex    sync.Mutex
	Messages map[string]string
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{Messages: map[string]string{}}
}

func (o *MemoryOutput) Write(id string, contents string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Messages[id] = contents
}

func (o *MemoryOutput) Get(id string) string {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.Messages[id]
}

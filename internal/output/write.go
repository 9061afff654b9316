package output

import (
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
)

// WriteReportFile renders into path under an exclusive file lock, so CI jobs
// sharing an artifact path cannot interleave partial writes.
func WriteReportFile(path string, render func(io.Writer) error) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock report file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	if err := render(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

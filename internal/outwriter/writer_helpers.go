package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/whodunit/internal/contract"
)

// writeWithFile runs writer against outputFile, or stdout when it is empty.
// The file is created on the first write, so a run that fails before
// producing output leaves an existing file untouched.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string, log *contract.Logger) error {
	if outputFile == "" {
		return writer(os.Stdout)
	}

	lf := &lazyFile{path: outputFile}
	defer func() { _ = lf.Close() }()

	if err := writer(lf); err != nil {
		return err
	}
	if err := lf.open(); err != nil {
		return err
	}

	log.Infof("%s to %s", successMsg, outputFile)
	return nil
}

// lazyFile creates its file on the first write.
type lazyFile struct {
	path string
	file *os.File
	err  error
}

func (lf *lazyFile) open() error {
	if lf.file == nil && lf.err == nil {
		lf.file, lf.err = contract.SelectOutputFile(lf.path)
	}
	return lf.err
}

func (lf *lazyFile) Write(p []byte) (int, error) {
	if err := lf.open(); err != nil {
		return 0, err
	}
	return lf.file.Write(p)
}

// Close closes the file if it was created.
func (lf *lazyFile) Close() error {
	if lf.file == nil {
		return nil
	}
	return lf.file.Close()
}

// errWriter remembers the first write error so that line-oriented output
// can be written without checking every call.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

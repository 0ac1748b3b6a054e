package lib

import (
	"io"
	"os"
)

// OpenInput opens a file operand for reading. "-" is stdin, which is never
// closed and has no FileInfo: whatever it is connected to, it has to be read.
func OpenInput(filename string, stdin io.Reader) (io.ReadCloser, os.FileInfo, error) {
	if filename == "-" {
		return io.NopCloser(stdin), nil, nil
	}
	fd, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, nil, err
	}
	return fd, fi, nil
}

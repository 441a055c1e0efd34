// ABOUTME: Input selector reading the on-air input id from a file
// ABOUTME: The studio switch writes the active input number as the first line
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrInvalidInput = errors.New("invalid input id")

type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Current(_ context.Context) (int, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return 0, fmt.Errorf("open input file: %w", err)
	}
	defer fh.Close()

	line, err := bufio.NewReader(fh).ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("%w: empty input file", ErrInvalidInput)
	}

	v := strings.TrimSpace(line)
	id, err := strconv.Atoi(v)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, v)
	}
	return id, nil
}

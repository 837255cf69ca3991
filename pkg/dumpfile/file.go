// Package dumpfile reads and writes configuration dumps.
// File name "-" denotes stdin or stdout.
package dumpfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

// Used as timestamp of backup files; changed in tests.
var now = time.Now

// Read returns content of file fname.
// Invalid UTF-8 byte sequences are silently dropped.
func Read(fname string) (string, error) {
	var data []byte
	var err error
	if fname == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(fname)
	}
	if err != nil {
		return "", fmt.Errorf("Can't %v", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// Write replaces content of file fname by data.
// If backup is set, an existing file is renamed before.
func Write(fname, data string, backup bool) error {
	if fname == "-" {
		_, err := io.WriteString(os.Stdout, data)
		return err
	}
	if backup {
		if _, err := Backup(fname); err != nil {
			return err
		}
	}
	fh, err := Create(fname)
	if err != nil {
		return fmt.Errorf("Can't %v", err)
	}
	if _, err := io.WriteString(fh, data); err != nil {
		fh.Close()
		return fmt.Errorf("Can't %v", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("Can't %v", err)
	}
	return nil
}

// Backup renames existing file fname to fname.<unix time> and returns
// the new name. It returns "" if fname doesn't exist.
func Backup(fname string) (string, error) {
	if _, err := os.Stat(fname); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("Can't %v", err)
	}
	bak := fmt.Sprintf("%s.%d", fname, now().Unix())
	if err := os.Rename(fname, bak); err != nil {
		return "", fmt.Errorf("Can't %v", err)
	}
	return bak, nil
}

// Create creates or truncates file fname.
// Missing directories are created.
func Create(fname string) (*os.File, error) {
	dir := path.Dir(fname)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(fname, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
}

// OutName inserts suffix into fname before its extension:
// data.txt -> data_hasil.txt
func OutName(fname, suffix string) string {
	if fname == "-" {
		return fname
	}
	ext := path.Ext(fname)
	if ext == path.Base(fname) {
		ext = ""
	}
	return strings.TrimSuffix(fname, ext) + suffix + ext
}

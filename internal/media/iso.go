// Package media builds ISO images used as removable media for domains, such
// as the sources given to change-media or attached as cdrom disks.
package media

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kdomanski/iso9660"
)

// labelPattern is the ISO 9660 volume identifier charset (d-characters).
var labelPattern = regexp.MustCompile(`^[A-Z0-9_]{1,32}$`)

// File is one entry in the root directory of an image.
type File struct {
	Name string
	Data []byte
}

// BuildISO creates an ISO 9660 image holding files in its root directory,
// labelled with label. The label must be 1-32 upper-case letters, digits or
// underscores.
func BuildISO(label string, files []File) ([]byte, error) {
	if !labelPattern.MatchString(label) {
		return nil, fmt.Errorf("invalid volume label %q: must be 1-32 characters of A-Z, 0-9 or _", label)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("image needs at least one file")
	}

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Name == "" {
			return nil, fmt.Errorf("file name cannot be empty")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate file %q", f.Name)
		}
		seen[f.Name] = true
	}

	writer, err := iso9660.NewWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create ISO writer: %w", err)
	}
	defer func() {
		_ = writer.Cleanup()
	}()

	for _, f := range files {
		if err := writer.AddFile(bytes.NewReader(f.Data), f.Name); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", f.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := writer.WriteTo(&buf, label); err != nil {
		return nil, fmt.Errorf("failed to write ISO image: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteISO builds an image and stores it at path.
func WriteISO(path, label string, files []File) error {
	data, err := BuildISO(label, files)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

// ReadFiles loads host files as image entries named by their base names.
func ReadFiles(paths ...string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, File{Name: filepath.Base(p), Data: data})
	}
	return files, nil
}

package artifact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// extract unpacks the zip at src into dir, replacing anything already there.
// Entries that would land outside dir are rejected.
func (c *controller) extract(src, dir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer r.Close()

	if err := c.fs.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing %q: %w", dir, err)
	}
	if err := c.fs.MkdirAll(dir); err != nil {
		return fmt.Errorf("creating %q: %w", dir, err)
	}

	clean := filepath.Clean(dir)
	root := clean + string(os.PathSeparator)
	for _, f := range r.File {
		target := filepath.Join(dir, f.Name)
		if target != clean && !strings.HasPrefix(target, root) {
			return fmt.Errorf("zip entry %q escapes %q", f.Name, dir)
		}

		if f.FileInfo().IsDir() {
			if err := c.fs.MkdirAll(target); err != nil {
				return err
			}
			continue
		}
		if err := c.fs.MkdirAll(filepath.Dir(target)); err != nil {
			return err
		}
		if err := c.extractFile(f, target); err != nil {
			return err
		}
	}

	c.logger.Infow("extracted artifact", "archive", src, "directory", dir, "entries", len(r.File))
	return nil
}

func (c *controller) extractFile(f *zip.File, target string) error {
	in, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading zip entry %q: %w", f.Name, err)
	}
	defer in.Close()

	out, err := c.fs.Create(target)
	if err != nil {
		return fmt.Errorf("creating %q: %w", target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing %q: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if mode := f.Mode().Perm(); mode != 0 {
		return c.fs.Chmod(target, mode)
	}
	return nil
}

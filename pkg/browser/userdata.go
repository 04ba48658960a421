package browser

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Chromium lock files that pin a profile to the process that created them.
var profileLockFiles = map[string]bool{
	"SingletonLock":   true,
	"SingletonCookie": true,
	"SingletonSocket": true,
	"lockfile":        true,
}

// CloneUserDataDir copies a browser profile into a new temporary directory
// and returns its path. Lock files are skipped so the clone can be opened
// while the original is in use. Symlinks are not followed.
func CloneUserDataDir(src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("user data dir unavailable: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("user data dir %q is not a directory", src)
	}

	dst, err := os.MkdirTemp("", "act-userdata-*")
	if err != nil {
		return "", fmt.Errorf("failed to create clone directory: %w", err)
	}

	if err := copyTree(src, dst); err != nil {
		_ = os.RemoveAll(dst)
		return "", fmt.Errorf("failed to clone user data dir: %w", err)
	}
	return dst, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0750)
		case profileLockFiles[d.Name()], d.Type()&fs.ModeSymlink != 0, !d.Type().IsRegular():
			return nil
		default:
			return copyFile(path, target)
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

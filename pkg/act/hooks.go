package act

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

// StopInfo describes a session that has just stopped.
type StopInfo struct {
	SessionID    string
	StartingPage string
	LogsDir      string
	VideoDir     string
	VideoPath    string
	StartedAt    time.Time
	StoppedAt    time.Time
}

// StopHook runs after a session's browser has closed, so recordings and
// logs are complete.
type StopHook interface {
	OnStop(ctx context.Context, info StopInfo) error
}

// StopHookFunc adapts a function to StopHook.
type StopHookFunc func(ctx context.Context, info StopInfo) error

// OnStop implements StopHook.
func (f StopHookFunc) OnStop(ctx context.Context, info StopInfo) error { return f(ctx, info) }

// ArchiveHook writes <dir>/<session-id>.tar.gz containing the session's
// logs directory.
func ArchiveHook(dir string) StopHook {
	return StopHookFunc(func(ctx context.Context, info StopInfo) error {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
		dest := filepath.Join(dir, info.SessionID+".tar.gz")
		if err := archiveDir(ctx, info.LogsDir, dest); err != nil {
			_ = os.Remove(dest)
			return err
		}
		return nil
	})
}

func archiveDir(ctx context.Context, src, dest string) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		in, err := os.Open(p)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(tw, in)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", src, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return f.Close()
}

// Uploader copies a local file to remote storage under key.
type Uploader interface {
	Upload(ctx context.Context, key, localPath string) error
}

// UploadHook uploads every file of the session's logs directory under
// <prefix>/<session-id>/.
func UploadHook(u Uploader, prefix string) StopHook {
	return StopHookFunc(func(ctx context.Context, info StopInfo) error {
		return filepath.WalkDir(info.LogsDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(info.LogsDir, p)
			if err != nil {
				return err
			}
			key := path.Join(prefix, info.SessionID, filepath.ToSlash(rel))
			if err := u.Upload(ctx, key, p); err != nil {
				return fmt.Errorf("failed to upload %s: %w", rel, err)
			}
			return nil
		})
	})
}

// DryRunUploader records the objects it would upload to a bucket without
// contacting any service.
type DryRunUploader struct {
	Bucket string

	mu      sync.Mutex
	objects []string
}

// Upload implements Uploader.
func (d *DryRunUploader) Upload(ctx context.Context, key, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(localPath); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects = append(d.objects, fmt.Sprintf("s3://%s/%s", d.Bucket, key))
	return nil
}

// Objects returns the URIs recorded so far.
func (d *DryRunUploader) Objects() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.objects...)
}

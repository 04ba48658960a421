// Command file-operations uploads files through a file input, including
// several at once, and captures a download, reporting the page count of
// the downloaded PDF. It runs against a local site it serves itself.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/samplekit"
)

func main() {
	samplekit.Main("file-operations", run)
}

// sampleFiles writes small files to upload into dir.
func sampleFiles(dir string, names ...string) ([]string, error) {
	paths := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		content := fmt.Sprintf("sample upload %s\n", name)
		if err := os.WriteFile(p, []byte(content), 0600); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", name, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func upload(k *samplekit.Kit, site *fixtureSite, baseURL, workDir string, names ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		paths, err := sampleFiles(workDir, names...)
		if err != nil {
			return err
		}

		client, err := k.NewClient(baseURL + "/upload")
		if err != nil {
			return err
		}
		before := len(site.Received())
		return client.With(ctx, func(c *act.Client) error {
			p.Step("📎 Attaching %d file(s) to the file input...", len(paths))
			if err := c.Page().SetInputFiles("#files", paths); err != nil {
				return err
			}

			p.Step("📤 Submitting the form...")
			if _, err := c.Act(ctx, "click the Upload button"); err != nil {
				return err
			}
			res, err := c.Act(ctx, "read the upload result message and return it")
			if err != nil {
				return err
			}
			p.KeyValue("Page says", res.Response)

			got := site.Received()[before:]
			if len(got) != len(paths) {
				return fmt.Errorf("site received %d files, expected %d", len(got), len(paths))
			}
			for _, f := range got {
				p.Itemf("%s (%d bytes)", f.Name, f.Size)
			}
			p.Successf("Uploaded %d file(s)", len(got))
			return nil
		})
	}
}

func downloadReport(k *samplekit.Kit, baseURL, workDir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		dir := filepath.Join(workDir, "downloads")

		client, err := k.NewClient(baseURL + "/downloads")
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			p.Step("📥 Clicking the download link...")
			path, err := c.Page().WaitForDownload(dir, func() error {
				_, err := c.Act(ctx, "click the 'Download report' link")
				return err
			})
			if err != nil {
				return err
			}

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			p.Successf("Saved %s (%d bytes)", path, info.Size())

			pages, err := api.PageCountFile(path)
			if err != nil {
				return fmt.Errorf("downloaded file is not a readable PDF: %w", err)
			}
			p.KeyValue("PDF pages", pages)
			return nil
		})
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("📁 Sample 06: File Upload & Download")

	site := newFixtureSite()
	baseURL, shutdown, err := site.serve()
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
	p.Infof("🌐 Local test site: %s", baseURL)

	workDir, err := os.MkdirTemp("", "act-files-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	p.Infof("📁 Work directory: %s", workDir)

	results := k.RunDemos(ctx,
		samplekit.Demo{Name: "Single file upload", Run: upload(k, site, baseURL, workDir, "notes.txt")},
		samplekit.Demo{Name: "Multiple file upload", Run: upload(k, site, baseURL, workDir, "data.csv", "config.json", "readme.md")},
		samplekit.Demo{Name: "File download", Run: downloadReport(k, baseURL, workDir)},
	)

	p.Section("This example demonstrates")
	p.Itemf("Attaching files to a file input")
	p.Itemf("Uploading several files at once")
	p.Itemf("Capturing a download and inspecting it")
	p.Tipf("Files are kept in %s; delete it after testing", workDir)

	if n := samplekit.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d demos failed", n, len(results))
	}
	return ctx.Err()
}

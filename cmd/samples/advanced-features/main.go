// Command advanced-features shows client configuration beyond the basics:
// a custom logs directory, video recording, stop hooks that archive and
// upload a session, proxy settings, a custom user agent and remote
// debugging of a headless browser.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/entrhq/act-samples/pkg/act"
	"github.com/entrhq/act-samples/pkg/browser"
	"github.com/entrhq/act-samples/pkg/config"
	"github.com/entrhq/act-samples/pkg/samplekit"
)

const (
	searchPage    = "https://www.google.com"
	userAgentPage = "https://httpbin.org/user-agent"
	userAgent     = "NovaActBot/1.0 (Educational Purpose)"
	bucket        = "my-nova-act-recordings"
	debugPort     = 9222
)

func main() {
	samplekit.Main("advanced-features", run)
}

// artifact is a file a session left behind.
type artifact struct {
	Path string
	Size int64
}

// findArtifacts lists the regular files under dir whose base name matches
// pattern, sorted by path.
func findArtifacts(dir, pattern string) ([]artifact, error) {
	var found []artifact
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil || !ok {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		found = append(found, artifact{Path: p, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

// recordedVideo stats the recording a stopped client reports. ok is false
// when nothing was recorded.
func recordedVideo(path string) (artifact, bool, error) {
	if path == "" {
		return artifact{}, false, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return artifact{}, false, nil
	}
	if err != nil {
		return artifact{}, false, fmt.Errorf("failed to read recording: %w", err)
	}
	return artifact{Path: path, Size: info.Size()}, true, nil
}

func megabytes(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
}

func customLogging(k *samplekit.Kit, workDir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		logsDir := filepath.Join(workDir, "logs")
		p.KeyValue("Logs directory", logsDir)

		client, err := k.NewClient(searchPage, act.WithLogsDirectory(logsDir))
		if err != nil {
			return err
		}
		err = client.With(ctx, func(c *act.Client) error {
			for _, prompt := range []string{
				"search for 'Amazon Nova Act'",
				"click the first search result",
				"return the title of this page",
			} {
				p.Step("🤖 %s", prompt)
				res, err := c.Act(ctx, prompt)
				if err != nil {
					return err
				}
				p.Verbosef("%s", res.Metadata)
			}
			return nil
		})
		if err != nil {
			return err
		}

		traces, err := findArtifacts(filepath.Join(logsDir, client.SessionID()), "act_*.html")
		if err != nil {
			return err
		}
		p.Successf("%d act traces written", len(traces))
		for _, t := range traces {
			p.Itemf("%s", t.Path)
		}
		return nil
	}
}

func videoRecording(k *samplekit.Kit, workDir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		logsDir := filepath.Join(workDir, "video")

		client, err := k.NewClient(searchPage, act.WithLogsDirectory(logsDir), act.WithRecordVideo(true))
		if err != nil {
			return err
		}
		err = client.With(ctx, func(c *act.Client) error {
			p.Step("🎥 Recording while searching...")
			_, err := c.Act(ctx, "search for 'browser automation' and scroll down the results")
			return err
		})
		if err != nil {
			return err
		}

		video, ok, err := recordedVideo(client.VideoPath())
		if err != nil {
			return err
		}
		if !ok {
			p.Warningf("No recording found")
			return nil
		}
		p.Itemf("%s (%s)", video.Path, megabytes(video.Size))
		return nil
	}
}

func cloudUpload(k *samplekit.Kit, workDir string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		archives := filepath.Join(workDir, "archives")
		uploader := &act.DryRunUploader{Bucket: bucket}

		client, err := k.NewClient(searchPage,
			act.WithLogsDirectory(filepath.Join(workDir, "upload")),
			act.WithStopHooks(act.ArchiveHook(archives), act.UploadHook(uploader, "sessions")),
		)
		if err != nil {
			return err
		}
		err = client.With(ctx, func(c *act.Client) error {
			_, err := c.Act(ctx, "search for 'Amazon S3'")
			return err
		})
		if err != nil {
			return err
		}

		p.KeyValue("Archive", filepath.Join(archives, client.SessionID()+".tar.gz"))
		objects := uploader.Objects()
		p.Successf("%d objects would be uploaded", len(objects))
		for _, o := range objects {
			p.Itemf("%s", o)
		}
		p.Tipf("Replace the dry-run uploader with one backed by your storage SDK to upload for real")
		return nil
	}
}

// proxyExamples are shown, not used: they point at placeholder hosts.
var proxyExamples = []struct {
	Label string
	Proxy browser.ProxyConfig
}{
	{"Basic proxy", browser.ProxyConfig{Server: "http://proxy.example.com:8080"}},
	{"Authenticated proxy", browser.ProxyConfig{
		Server:   "http://proxy.example.com:8080",
		Username: "proxy_user",
		Password: "proxy_password",
	}},
	{"Proxy with bypass list", browser.ProxyConfig{
		Server: "socks5://proxy.example.com:1080",
		Bypass: "localhost,127.0.0.1",
	}},
}

func proxyConfiguration(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		for _, ex := range proxyExamples {
			p.KeyValue(ex.Label, ex.Proxy.Masked())
			if ex.Proxy.Bypass != "" {
				p.KeyValue("  Bypass", ex.Proxy.Bypass)
			}
		}
		p.Tipf("Pass one to act.WithProxy to route the browser through it")
		return nil
	}
}

func customUserAgent(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		client, err := k.NewClient(userAgentPage, act.WithUserAgent(userAgent))
		if err != nil {
			return err
		}
		return client.With(ctx, func(c *act.Client) error {
			res, err := c.Act(ctx, "return the user agent shown on this page")
			if err != nil {
				return err
			}
			p.KeyValue("Reported user agent", res.Response)
			if !strings.Contains(res.Response, "NovaActBot") {
				p.Warningf("The page did not report the custom user agent")
				return nil
			}
			p.Successf("Custom user agent in use")
			return nil
		})
	}
}

func headlessDebugging(k *samplekit.Kit) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		p := k.Printer
		p.Infof("To inspect a headless browser while a sample runs:")
		p.Itemf("export %s=\"--remote-debugging-port=%d\"", config.EnvBrowserArgs, debugPort)
		p.Itemf("Run the sample with -headless")
		p.Itemf("curl http://localhost:%d/json to list the open pages", debugPort)
		p.Itemf("Open a page's devtoolsFrontendUrl in a local Chrome")
		if args := k.Env.BrowserArgs; len(args) > 0 {
			p.KeyValue("Current browser args", strings.Join(args, " "))
		}
		return nil
	}
}

func run(ctx context.Context, k *samplekit.Kit) error {
	p := k.Printer
	p.Header("⚙️ Sample 07: Advanced Features")

	workDir, err := os.MkdirTemp("", "act-advanced-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}
	p.Infof("📁 Output directory: %s", workDir)

	results := k.RunDemos(ctx,
		samplekit.Demo{Name: "Custom logging", Run: customLogging(k, workDir)},
		samplekit.Demo{Name: "Video recording", Run: videoRecording(k, workDir)},
		samplekit.Demo{Name: "Cloud upload", Run: cloudUpload(k, workDir)},
		samplekit.Demo{Name: "Proxy configuration", Run: proxyConfiguration(k)},
		samplekit.Demo{Name: "Custom user agent", Run: customUserAgent(k)},
		samplekit.Demo{Name: "Headless debugging", Run: headlessDebugging(k)},
	)

	p.Tipf("Logs, traces and videos are kept in %s", workDir)
	if n := samplekit.Failed(results); n > 0 {
		return fmt.Errorf("%d of %d demos failed", n, len(results))
	}
	return ctx.Err()
}

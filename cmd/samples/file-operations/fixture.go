package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"
)

// uploadedFile is a file received by the fixture site.
type uploadedFile struct {
	Name string
	Size int64
}

// fixtureSite is a local site with an upload form and downloadable files.
type fixtureSite struct {
	mu       sync.Mutex
	received []uploadedFile
	files    map[string]download
}

type download struct {
	contentType string
	data        []byte
}

func newFixtureSite() *fixtureSite {
	return &fixtureSite{
		files: map[string]download{
			"report.pdf": {contentType: "application/pdf", data: reportPDF("Quarterly report", 3)},
			"notes.txt":  {contentType: "text/plain; charset=utf-8", data: []byte("Meeting notes\n- ship the samples\n")},
		},
	}
}

// Received returns the files uploaded so far.
func (s *fixtureSite) Received() []uploadedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uploadedFile(nil), s.received...)
}

const page = `<!DOCTYPE html>
<html><head><title>%s</title></head><body>
<nav><a href="/upload">Upload</a> | <a href="/downloads">Downloads</a></nav>
<h1>%s</h1>
%s
</body></html>`

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := html.EscapeString(title)
	fmt.Fprintf(w, page, t, t, body)
}

func (s *fixtureSite) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, "File operations", `<p>Choose <a href="/upload">Upload</a> or <a href="/downloads">Downloads</a>.</p>`)
	})

	mux.HandleFunc("GET /upload", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, "Upload files", `<form action="/upload" method="post" enctype="multipart/form-data">
<label for="files">Files</label>
<input type="file" id="files" name="files" multiple>
<button type="submit" id="upload">Upload</button>
</form>`)
	})

	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "invalid upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		headers := r.MultipartForm.File["files"]

		var items string
		s.mu.Lock()
		for _, h := range headers {
			s.received = append(s.received, uploadedFile{Name: h.Filename, Size: h.Size})
			items += fmt.Sprintf("<li>%s (%d bytes)</li>", html.EscapeString(h.Filename), h.Size)
		}
		s.mu.Unlock()

		writePage(w, "Upload complete", fmt.Sprintf(`<p id="result">Received %d files</p><ul>%s</ul>`, len(headers), items))
	})

	mux.HandleFunc("GET /downloads", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, "Downloads", `<ul>
<li><a href="/files/report.pdf" download>Download report</a></li>
<li><a href="/files/notes.txt" download>Download notes</a></li>
</ul>`)
	})

	mux.HandleFunc("GET /files/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		f, ok := s.files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", f.contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		_, _ = w.Write(f.data)
	})

	return mux
}

// serve starts the site on a loopback port and returns its base URL and a
// function that shuts it down.
func (s *fixtureSite) serve() (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen: %w", err)
	}
	srv := &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Printf("fixture site stopped: %v\n", err)
		}
	}()
	return "http://" + ln.Addr().String(), srv.Shutdown, nil
}

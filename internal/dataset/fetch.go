// Package dataset downloads and unpacks the movie corpus archive.
package dataset

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/KaramelBytes/moviecorpus-cli/internal/corpus"
	"github.com/KaramelBytes/moviecorpus-cli/internal/logging"
	"github.com/KaramelBytes/moviecorpus-cli/internal/utils"
)

// DefaultURL is the published location of the CMU Movie Summary Corpus.
const DefaultURL = "http://www.cs.cmu.edu/~ark/personas/data/MovieSummaries.tar.gz"

const lockName = ".fetch.lock"

// Files are the archive members extracted into the data directory.
var Files = []string{corpus.CharacterFile, corpus.MovieFile, corpus.SummaryFile}

// Fetcher downloads the corpus archive. It implements corpus.Fetcher.
type Fetcher struct {
	URL    string
	Client *http.Client
	// LockWait is the polling interval while another process holds the lock.
	LockWait time.Duration
}

// New returns a Fetcher for url with the given HTTP timeout.
func New(url string, timeout time.Duration) *Fetcher {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Fetcher{URL: url, Client: &http.Client{Timeout: timeout}, LockWait: 250 * time.Millisecond}
}

// Ensure downloads the archive into dir unless the character file is already there.
func (f *Fetcher) Ensure(ctx context.Context, dir string) error {
	return f.fetch(ctx, dir, false)
}

// Fetch downloads the archive into dir even if the files already exist.
func (f *Fetcher) Fetch(ctx context.Context, dir string) error {
	return f.fetch(ctx, dir, true)
}

func (f *Fetcher) fetch(ctx context.Context, dir string, force bool) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	log := logging.With().Str("component", "dataset").Str("dir", dir).Logger()
	lock := flock.New(filepath.Join(dir, lockName))
	ok, err := lock.TryLockContext(ctx, f.LockWait)
	if err != nil {
		return fmt.Errorf("acquire fetch lock: %w", err)
	}
	if !ok {
		return errors.New("another process is fetching the dataset")
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn().Err(err).Msg("failed to release fetch lock")
		}
	}()

	// A concurrent fetch may have finished while we waited.
	if !force && utils.FileExists(filepath.Join(dir, corpus.CharacterFile)) {
		return nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", f.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download %s: unexpected status %s", f.URL, resp.Status)
	}

	got, err := Extract(resp.Body, dir, Files)
	if err != nil {
		return err
	}
	if !got[corpus.CharacterFile] {
		return fmt.Errorf("archive does not contain %s", corpus.CharacterFile)
	}
	for _, name := range Files {
		if !got[name] {
			log.Warn().Str("file", name).Msg("archive member missing")
		}
	}
	log.Info().Str("url", f.URL).Int("files", len(got)).Dur("elapsed", time.Since(start)).Msg("dataset fetched")
	return nil
}

// Extract unpacks the members of a gzipped tar stream whose base names are in
// want into dir, replacing existing files atomically. It reports which names
// were written.
func Extract(r io.Reader, dir string, want []string) (map[string]bool, error) {
	wanted := make(map[string]bool, len(want))
	for _, w := range want {
		wanted[w] = true
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	got := map[string]bool{}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return got, fmt.Errorf("read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Base(hdr.Name)
		if !wanted[name] || got[name] {
			continue
		}
		n, err := utils.SafeWriteStream(filepath.Join(dir, name), tr)
		if err != nil {
			return got, fmt.Errorf("extract %s: %w", name, err)
		}
		got[name] = true
		logging.Debug().Str("file", name).Int64("bytes", n).Msg("extracted")
	}
	return got, nil
}

// Package dataio opens and creates data files on local disk, over http,
// on Google Cloud Storage (gs://) and on Backblaze B2 (b2://), handling
// compression by file extension.
package dataio

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/Backblaze/blazer/b2"
	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/ulikunitz/xz"
	"google.golang.org/api/option"

	xzReader "github.com/xi2/xz"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrUnsupportedScheme  = errors.New("unsupported scheme")
)

// Config holds the credentials of the remote storage backends.
type Config struct {
	GCSServiceAccount string `env:"GCS_SVC_ACC"`
	B2KeyID           string `env:"B2_KEY_ID"`
	B2AppKey          string `env:"B2_APP_KEY"`
}

// Store keeps one client per backend and bucket, created on first use.
type Store struct {
	Config Config

	mu         sync.Mutex
	httpClient *http.Client
	gcsClient  *storage.Client
	b2Client   *b2.Client
	b2Buckets  map[string]*b2.Bucket
}

func New(config Config) *Store {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.Logger = nil
	client.RetryMax = 5

	return &Store{
		Config:     config,
		httpClient: client.StandardClient(),
		b2Buckets:  map[string]*b2.Bucket{},
	}
}

func (s *Store) gcsBucket(ctx context.Context, name string) (*storage.BucketHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gcsClient == nil {
		if s.Config.GCSServiceAccount == "" {
			return nil, fmt.Errorf("%w: GCS_SVC_ACC for GCS access", ErrMissingCredentials)
		}
		client, err := storage.NewClient(ctx, option.WithCredentialsFile(s.Config.GCSServiceAccount))
		if err != nil {
			return nil, fmt.Errorf("error creating the GCS client %w", err)
		}
		s.gcsClient = client
	}
	return s.gcsClient.Bucket(name), nil
}

func (s *Store) b2Bucket(ctx context.Context, name string) (*b2.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, found := s.b2Buckets[name]
	if found {
		return bucket, nil
	}

	if s.b2Client == nil {
		if s.Config.B2KeyID == "" || s.Config.B2AppKey == "" {
			return nil, fmt.Errorf("%w: B2_KEY_ID and B2_APP_KEY for B2 access", ErrMissingCredentials)
		}
		client, err := b2.NewClient(ctx, s.Config.B2KeyID, s.Config.B2AppKey)
		if err != nil {
			return nil, err
		}
		s.b2Client = client
	}

	bucket, err := s.b2Client.Bucket(ctx, name)
	if err != nil {
		return nil, err
	}
	s.b2Buckets[name] = bucket
	return bucket, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		cerr := rc.closers[i].Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

// Close flushes the compressor before the underlying file or object.
func (wc *writeCloser) Close() error {
	var err error
	for i := len(wc.closers) - 1; i >= 0; i-- {
		cerr := wc.closers[i].Close()
		if err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path, decompressing .xz, .bz2 and .gz files.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	var reader io.ReadCloser

	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status for %s: %s", path, resp.Status)
		}
		reader = resp.Body
	case "gs":
		bucket, err := s.gcsBucket(ctx, u.Host)
		if err != nil {
			return nil, err
		}
		obj, err := bucket.Object(strings.TrimPrefix(u.Path, "/")).NewReader(ctx)
		if err != nil {
			return nil, err
		}
		reader = obj
	case "b2":
		bucket, err := s.b2Bucket(ctx, u.Host)
		if err != nil {
			return nil, err
		}
		obj := bucket.Object(strings.TrimPrefix(u.Path, "/")).NewReader(ctx)
		obj.ConcurrentDownloads = 20
		reader = obj
	case "", "file":
		file, err := os.Open(strings.TrimPrefix(path, "file://"))
		if err != nil {
			return nil, err
		}
		reader = file
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	out := &readCloser{
		Reader:  reader,
		closers: []io.Closer{reader},
	}
	switch {
	case strings.HasSuffix(u.Path, ".xz"):
		xzr, err := xzReader.NewReader(reader, 0)
		if err != nil {
			reader.Close()
			return nil, err
		}
		out.Reader = xzr
	case strings.HasSuffix(u.Path, ".bz2"):
		bz2r, err := bzip2.NewReader(reader, nil)
		if err != nil {
			reader.Close()
			return nil, err
		}
		out.Reader = bz2r
		out.closers = append(out.closers, bz2r)
	case strings.HasSuffix(u.Path, ".gz"):
		zipr, err := gzip.NewReader(reader)
		if err != nil {
			reader.Close()
			return nil, err
		}
		out.Reader = zipr
		out.closers = append(out.closers, zipr)
	}
	return out, nil
}

// Create returns a writer for path, compressing .xz and .bz2 files. Data
// reaches remote storage only once the writer is closed.
func (s *Store) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	var writer io.WriteCloser

	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "gs":
		bucket, err := s.gcsBucket(ctx, u.Host)
		if err != nil {
			return nil, err
		}
		writer = bucket.Object(strings.TrimPrefix(u.Path, "/")).NewWriter(ctx)
	case "b2":
		bucket, err := s.b2Bucket(ctx, u.Host)
		if err != nil {
			return nil, err
		}
		writer = bucket.Object(strings.TrimPrefix(u.Path, "/")).NewWriter(ctx)
	case "", "file":
		file, err := os.Create(strings.TrimPrefix(path, "file://"))
		if err != nil {
			return nil, err
		}
		writer = file
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}

	out := &writeCloser{
		Writer:  writer,
		closers: []io.Closer{writer},
	}
	switch {
	case strings.HasSuffix(u.Path, ".xz"):
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			writer.Close()
			return nil, err
		}
		out.Writer = xzWriter
		out.closers = append(out.closers, xzWriter)
	case strings.HasSuffix(u.Path, ".bz2"):
		bz2Writer, err := bzip2.NewWriter(writer, nil)
		if err != nil {
			writer.Close()
			return nil, err
		}
		out.Writer = bz2Writer
		out.closers = append(out.closers, bz2Writer)
	}
	return out, nil
}

package dump

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mdbgo/mdbsql/export"
)

// S3Config contains S3 authentication configuration for s3:// locations.
type S3Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string // Optional: custom S3-compatible endpoint
}

// urlScheme represents the scheme of a dump location
type urlScheme string

const (
	schemeFile  urlScheme = "file"
	schemeS3    urlScheme = "s3"
	schemeHTTP  urlScheme = "http"
	schemeHTTPS urlScheme = "https"
	schemeLocal urlScheme = "local" // no scheme, local path
)

// detectScheme detects the URL scheme from a location string
func detectScheme(location string) urlScheme {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "s3://"):
		return schemeS3
	case strings.HasPrefix(lower, "https://"):
		return schemeHTTPS
	case strings.HasPrefix(lower, "http://"):
		return schemeHTTP
	case strings.HasPrefix(lower, "file://"):
		return schemeFile
	default:
		return schemeLocal
	}
}

// join appends elem to a location, respecting its scheme.
func join(location, elem string) string {
	if detectScheme(location) == schemeLocal {
		return path.Join(location, elem)
	}
	return strings.TrimSuffix(location, "/") + "/" + elem
}

// WriteDump writes d under location as <table>/schema.sql and
// <table>/data.sql. cfg may be nil for non-S3 locations.
func WriteDump(location string, d export.Dump, cfg *S3Config) error {
	dir := join(location, d.Table)

	if detectScheme(dir) == schemeLocal {
		if err := osMkdirAll(dir); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
	}

	if err := writeFile(join(dir, "schema.sql"), d.Schema, cfg); err != nil {
		return err
	}
	return writeFile(join(dir, "data.sql"), d.Data, cfg)
}

// ReadDump reads the dump of table back from location.
func ReadDump(location, table string, cfg *S3Config) (export.Dump, error) {
	dir := join(location, table)

	schema, err := readFile(join(dir, "schema.sql"), cfg)
	if err != nil {
		return export.Dump{}, err
	}
	data, err := readFile(join(dir, "data.sql"), cfg)
	if err != nil {
		return export.Dump{}, err
	}
	return export.Dump{Table: table, Schema: schema, Data: data}, nil
}

func writeFile(location, content string, cfg *S3Config) error {
	w, err := openWriter(location, cfg)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return w.Close()
}

func readFile(location string, cfg *S3Config) (string, error) {
	r, err := openReader(location, cfg)
	if err != nil {
		return "", err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	return string(b), nil
}

// openReader opens a reader for the given dump location
func openReader(location string, cfg *S3Config) (io.ReadCloser, error) {
	switch detectScheme(location) {
	case schemeLocal, schemeFile:
		return osOpen(strings.TrimPrefix(location, "file://"))

	case schemeHTTP, schemeHTTPS:
		return openHTTPReader(location)

	case schemeS3:
		return openS3Reader(location, cfg)

	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", location)
	}
}

// openWriter opens a writer for the given dump location
func openWriter(location string, cfg *S3Config) (io.WriteCloser, error) {
	switch detectScheme(location) {
	case schemeLocal, schemeFile:
		return osCreate(strings.TrimPrefix(location, "file://"))

	case schemeHTTP, schemeHTTPS:
		return nil, fmt.Errorf("HTTP/HTTPS does not support writing")

	case schemeS3:
		return openS3Writer(location, cfg)

	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s", location)
	}
}

// openHTTPReader opens an HTTP GET reader
func openHTTPReader(url string) (io.ReadCloser, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute, // generous timeout for large dumps
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request returned status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// parseS3URL parses s3://bucket/key into bucket and key parts
func parseS3URL(url string) (bucket, key string, err error) {
	p := strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(p, "/", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("invalid S3 URL: %s", url)
	}
	return parts[0], parts[1], nil
}

// getS3Client creates an S3 client with the given configuration
func getS3Client(ctx context.Context, cfg *S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg != nil && cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	if cfg != nil && cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg != nil && cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // For S3-compatible services
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// openS3Reader opens a reader for an S3 object
func openS3Reader(url string, cfg *S3Config) (io.ReadCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}

	return resp.Body, nil
}

// s3Writer wraps S3 upload in a WriteCloser interface
type s3Writer struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	buffer []byte
	closed bool
}

func (w *s3Writer) Write(p []byte) (n int, err error) {
	if w.closed {
		return 0, fmt.Errorf("writer is closed")
	}
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

func (w *s3Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: aws.String(w.bucket),
		Key:    aws.String(w.key),
		Body:   strings.NewReader(string(w.buffer)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

// openS3Writer opens a writer for an S3 object
func openS3Writer(url string, cfg *S3Config) (io.WriteCloser, error) {
	bucket, key, err := parseS3URL(url)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	client, err := getS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &s3Writer{
		ctx:    ctx,
		client: client,
		bucket: bucket,
		key:    key,
		buffer: make([]byte, 0),
	}, nil
}

// osOpen wraps os.Open - used to allow the function to be swapped in tests
var osOpen = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// osCreate wraps os.Create - used to allow the function to be swapped in tests
var osCreate = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// osMkdirAll wraps os.MkdirAll - used to allow the function to be swapped in tests
var osMkdirAll = func(path string) error {
	return os.MkdirAll(path, 0o755)
}

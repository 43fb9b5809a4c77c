package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the handful of path-style S3 calls S3Storage makes.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

type fakeObject struct {
	body         []byte
	contentType  string
	lastModified time.Time
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		keys := make([]string, 0, len(f.objects))
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			obj := f.objects[k]
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>%s</LastModified></Contents>",
				k, len(obj.body), obj.lastModified.UTC().Format(time.RFC3339))
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}}), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeAWSChunked(body); ok {
			body = decoded
		}
		f.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), lastModified: time.Now()}
		return respond(http.StatusOK, nil, http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			body := []byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return respond(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return respond(http.StatusOK, obj.body, http.Header{
			"Content-Type":   {obj.contentType},
			"Content-Length": {fmt.Sprintf("%d", len(obj.body))},
		}), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, nil, http.Header{}), nil
	}
	return respond(http.StatusNotImplemented, nil, http.Header{}), nil
}

func respond(status int, body []byte, header http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: header}
}

// decodeAWSChunked unwraps a single-chunk aws-chunked payload.
func decodeAWSChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	var size int
	if _, err := fmt.Sscanf(parts[0], "%x", &size); err != nil || size != len(parts[1]) {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newFakeS3Storage(t *testing.T, prefix string) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]fakeObject{}}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return NewS3StorageFromClient(client, "exports-bucket", prefix), fake
}

func TestS3StorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, fake := newFakeS3Storage(t, "workboard/")

	name, err := store.Save(ctx, "list.csv", []byte("id,description\n1,Fix sink\n"))
	require.NoError(t, err)
	assert.Equal(t, "list.csv", name)

	fake.mu.Lock()
	obj, ok := fake.objects["workboard/list.csv"]
	fake.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "text/csv", obj.contentType)

	rc, err := store.Open(ctx, "list.csv")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "id,description\n1,Fix sink\n", string(data))

	require.NoError(t, store.Delete(ctx, "list.csv"))
	_, err = store.Open(ctx, "list.csv")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3StorageCleanupOlderThan(t *testing.T) {
	ctx := context.Background()
	store, fake := newFakeS3Storage(t, "workboard")

	_, err := store.Save(ctx, "old.pdf", []byte("%PDF"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "fresh.pdf", []byte("%PDF"))
	require.NoError(t, err)

	fake.mu.Lock()
	old := fake.objects["workboard/old.pdf"]
	old.lastModified = time.Now().Add(-72 * time.Hour)
	fake.objects["workboard/old.pdf"] = old
	fake.mu.Unlock()

	deleted, err := store.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.objects, "workboard/fresh.pdf")
	assert.NotContains(t, fake.objects, "workboard/old.pdf")
}

func TestS3StorageKeyNormalisation(t *testing.T) {
	store := NewS3StorageFromClient(nil, "b", "/exports/")
	assert.Equal(t, "exports/a/b.csv", store.key("/a/../a/b.csv"))
	assert.Equal(t, "exports/x.csv", store.key("../x.csv"))

	bare := NewS3StorageFromClient(nil, "b", "")
	assert.Equal(t, "x.csv", bare.key("x.csv"))
}

package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/testkit"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	putErr  error
	headErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

func TestPut_UploadsAndReturnsPublicURL(t *testing.T) {
	api := &fakeS3{}
	s := New(api, Config{PublicURL: "https://cdn.example.com/memories/"})

	u, err := s.Put(context.Background(), "1700000000000-abcd1234.jpg", strings.NewReader("img"), 3, "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if u != "https://cdn.example.com/memories/1700000000000-abcd1234.jpg" {
		t.Fatalf("url = %s", u)
	}
	if aws.ToString(api.put.Bucket) != DefaultBucket {
		t.Fatalf("bucket = %s", aws.ToString(api.put.Bucket))
	}
	if aws.ToString(api.put.ContentType) != "image/jpeg" || aws.ToInt64(api.put.ContentLength) != 3 {
		t.Fatalf("unexpected put input %+v", api.put)
	}
	if api.body != "img" {
		t.Fatalf("body = %q", api.body)
	}
}

func TestPut_ErrorIsUnavailable(t *testing.T) {
	s := New(&fakeS3{putErr: errors.New("503")}, Config{})
	_, err := s.Put(context.Background(), "k.png", strings.NewReader(""), 0, "")
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
}

func TestPublicURL_Derivation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit", Config{PublicURL: "https://x.test/", Bucket: "b"}, "https://x.test/a%20b.png"},
		{"endpoint", Config{Endpoint: "http://minio:9000/", Bucket: "b"}, "http://minio:9000/b/a%20b.png"},
		{"aws", Config{Region: "eu-west-1", Bucket: "b"}, "https://b.s3.eu-west-1.amazonaws.com/a%20b.png"},
		{"aws default region", Config{}, "https://memory-images.s3.us-east-1.amazonaws.com/a%20b.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := New(&fakeS3{}, tc.cfg).PublicURL("a b.png"); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	re := regexp.MustCompile(`^1700000000123-[0-9a-f]{8}\.(jpeg|bin)$`)

	k := NewKey(now, "Photo.JPEG")
	if !re.MatchString(k) || !strings.HasSuffix(k, ".jpeg") {
		t.Fatalf("key = %s", k)
	}
	if k2 := NewKey(now, "noext"); !strings.HasSuffix(k2, ".bin") {
		t.Fatalf("key = %s", k2)
	}
	if NewKey(now, "a.png") == NewKey(now, "a.png") {
		t.Fatal("keys in the same millisecond must differ")
	}
}

func TestPing(t *testing.T) {
	if err := New(&fakeS3{}, Config{}).Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := New(&fakeS3{headErr: errors.New("nope")}, Config{}).Ping(context.Background()); err == nil {
		t.Fatal("expected ping error")
	}
}

func TestNewNilAPIPanics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, Config{}) })
}

// s3Endpoint is a plain http bucket that records every PutObject
type s3Endpoint struct {
	mu     sync.Mutex
	paths  []string
	bodies [][]byte
}

func (e *s3Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusOK)
		return
	}
	b, _ := io.ReadAll(r.Body)
	e.mu.Lock()
	e.paths = append(e.paths, r.URL.Path)
	e.bodies = append(e.bodies, b)
	e.mu.Unlock()
	w.Header().Set("ETag", `"1"`)
	w.WriteHeader(http.StatusOK)
}

// uploadedFile returns data the way an upload handler sees it, as a multipart.File
func uploadedFile(t *testing.T, data []byte) multipart.File {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(data)
	_ = mw.Close()

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	f, err := form.File["file"][0].Open()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestPut_PlainHTTPEndpoint(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", t.TempDir()+"/none")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", t.TempDir()+"/none")

	ep := &s3Endpoint{}
	srv := httptest.NewServer(ep)
	defer srv.Close()

	s, err := Open(context.Background(), Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		PathStyle: true,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	jpeg := append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{7}, 2048)...)
	u, err := s.Put(context.Background(), "a.jpg", uploadedFile(t, jpeg), int64(len(jpeg)), "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if u != srv.URL+"/memory-images/a.jpg" {
		t.Fatalf("url = %s", u)
	}

	ep.mu.Lock()
	defer ep.mu.Unlock()
	if len(ep.paths) != 1 || ep.paths[0] != "/memory-images/a.jpg" {
		t.Fatalf("puts = %v", ep.paths)
	}
	if !bytes.Equal(ep.bodies[0], jpeg) {
		t.Fatalf("stored %d bytes, want %d", len(ep.bodies[0]), len(jpeg))
	}
}

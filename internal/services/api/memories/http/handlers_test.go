package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	phttp "memorial/internal/platform/net/http"
	"memorial/internal/platform/store/storetest"
	"memorial/internal/services/api/memories/domain"
	"memorial/internal/services/api/memories/repo"
	svc "memorial/internal/services/api/memories/service"

	"github.com/go-chi/chi/v5"
)

type memBlobs struct {
	ct     string
	body   []byte
	offset int64
}

func (m *memBlobs) Put(_ context.Context, key string, body io.ReadSeeker, _ int64, ct string) (string, error) {
	m.ct = ct
	m.offset, _ = body.Seek(0, io.SeekCurrent)
	m.body, _ = io.ReadAll(body)
	return "http://blobs/" + key, nil
}

// pngHeader is enough for content sniffing to say image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func form(t *testing.T, title, filename, ct string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if title != "" {
		_ = w.WriteField("title", title)
	}
	if data != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		if ct != "" {
			h.Set("Content-Type", ct)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = part.Write(data)
	}
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func serve(t *testing.T, s svc.Service, max int64, req *stdhttp.Request) *httptest.ResponseRecorder {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/memories", func(r phttp.Router) { Register(r, s, max) })
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, req)
	return rr
}

func TestUpload_SniffsContentType(t *testing.T) {
	q := &storetest.Querier{Results: []*storetest.Rows{{Data: [][]any{{int64(1), "Abuela", "http://blobs/k.png", time.Now()}}}}}
	blobs := &memBlobs{}
	s := svc.New(q, repo.NewPG(), blobs)

	body, ct := form(t, "Abuela", "abuela.png", "", pngHeader)
	req := httptest.NewRequest(stdhttp.MethodPost, "/memories", body)
	req.Header.Set("Content-Type", ct)
	rr := serve(t, s, 1<<20, req)

	if rr.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
	}
	if blobs.ct != "image/png" || !bytes.Equal(blobs.body, pngHeader) {
		t.Fatalf("blob ct=%q body=%q", blobs.ct, blobs.body)
	}
	if blobs.offset != 0 {
		t.Fatalf("body handed over at offset %d, want a rewound file", blobs.offset)
	}
	var env struct {
		Data domain.Uploaded `json:"data"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&env)
	if env.Data.Memory.ID != 1 {
		t.Fatalf("uploaded = %+v", env.Data)
	}
}

func TestUpload_Errors(t *testing.T) {
	s := svc.New(&storetest.Querier{}, repo.NewPG(), &memBlobs{})

	cases := []struct {
		name  string
		title string
		data  []byte
		ct    string
		want  int
	}{
		{"no file", "Abuela", nil, "", stdhttp.StatusBadRequest},
		{"no title", "", pngHeader, "image/png", stdhttp.StatusBadRequest},
		{"not an image", "Abuela", []byte("%PDF-1.4"), "application/pdf", stdhttp.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := form(t, tc.title, "f.bin", tc.ct, tc.data)
			req := httptest.NewRequest(stdhttp.MethodPost, "/memories", body)
			req.Header.Set("Content-Type", ct)
			if rr := serve(t, s, 1<<20, req); rr.Code != tc.want {
				t.Fatalf("status = %d body=%s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	s := svc.New(&storetest.Querier{}, repo.NewPG(), &memBlobs{})
	req := httptest.NewRequest(stdhttp.MethodPost, "/memories", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	if rr := serve(t, s, 1<<20, req); rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestList(t *testing.T) {
	q := &storetest.Querier{Results: []*storetest.Rows{{Data: [][]any{{int64(2), "Playa", "http://blobs/p.jpg", time.Now()}}}}}
	s := svc.New(q, repo.NewPG(), nil)
	rr := serve(t, s, 0, httptest.NewRequest(stdhttp.MethodGet, "/memories?limit=1", nil))
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var env struct {
		Data []domain.Memory `json:"data"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&env)
	if len(env.Data) != 1 || env.Data[0].ImageURL != "http://blobs/p.jpg" {
		t.Fatalf("list = %+v", env.Data)
	}
}

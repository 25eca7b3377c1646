package httpkit

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "memorial/internal/platform/errors"
)

type wishIn struct {
	Text string `json:"text" validate:"required,max=120"`
}

func serve(h Handler, method, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/wishes", nil)
	} else {
		req = httptest.NewRequest(method, "/wishes", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCall(t *testing.T) {
	cases := []struct {
		name     string
		fn       func(*http.Request) (any, error)
		wantCode int
		wantBody string
	}{
		{
			name:     "plain value wraps as ok",
			fn:       func(*http.Request) (any, error) { return map[string]int{"count": 3}, nil },
			wantCode: http.StatusOK,
			wantBody: `"count":3`,
		},
		{
			name:     "response passes through",
			fn:       func(*http.Request) (any, error) { return Created("lit"), nil },
			wantCode: http.StatusCreated,
			wantBody: `"data":"lit"`,
		},
		{
			name:     "coded error maps status",
			fn:       func(*http.Request) (any, error) { return nil, perr.New(perr.ErrorCodeNotFound, "no such candle") },
			wantCode: http.StatusNotFound,
			wantBody: "no such candle",
		},
		{
			name:     "foreign error is a 500",
			fn:       func(*http.Request) (any, error) { return nil, errors.New("boom") },
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(Call(tc.fn), http.MethodGet, "")
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantBody != "" && !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("body %q missing %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestJSON_BindsAndValidates(t *testing.T) {
	var seen string
	h := JSON(func(_ *http.Request, in wishIn) (any, error) {
		seen = in.Text
		return Created(in), nil
	})

	rec := serve(h, http.MethodPost, `{"text":"stay warm"}`)
	if rec.Code != http.StatusCreated || seen != "stay warm" {
		t.Fatalf("code=%d seen=%q", rec.Code, seen)
	}

	for _, body := range []string{`{`, `{"text":""}`, `{"text":"x","extra":1}`} {
		seen = ""
		rec := serve(h, http.MethodPost, body)
		if rec.Code < 400 || seen != "" {
			t.Fatalf("body %s: code=%d seen=%q", body, rec.Code, seen)
		}
	}
}

func TestSugar_Registers(t *testing.T) {
	r := &recordingRouter{}
	noop := func(*http.Request) (any, error) { return nil, nil }
	Get(r, "/motifs", noop)
	Post(r, "/memories", noop)
	PostJSON(r, "/wishes", func(*http.Request, wishIn) (any, error) { return nil, nil })

	want := []string{"GET /motifs", "POST /memories", "POST /wishes"}
	if strings.Join(r.seen, ",") != strings.Join(want, ",") {
		t.Fatalf("registered %v, want %v", r.seen, want)
	}
}

type recordingRouter struct {
	Router
	seen []string
}

func (r *recordingRouter) Get(path string, _ Handler)  { r.seen = append(r.seen, "GET "+path) }
func (r *recordingRouter) Post(path string, _ Handler) { r.seen = append(r.seen, "POST "+path) }

// Package http provides http transport for the memory tree
package http

import (
	"io"
	stdhttp "net/http"
	"strconv"

	"memorial/internal/modkit/httpkit"
	perr "memorial/internal/platform/errors"
	"memorial/internal/platform/logger"
	"memorial/internal/services/api/memories/domain"
	svc "memorial/internal/services/api/memories/service"
)

// multipartSlack covers the form fields and boundaries around the file
const multipartSlack = 1 << 20

// sniffLen is how many bytes content type detection looks at
const sniffLen = 512

// Register mounts memories endpoints on the given router
func Register(r httpkit.Router, s svc.Service, maxUpload int64) {
	if maxUpload <= 0 {
		maxUpload = svc.DefaultMaxUpload
	}
	h := &handlers{svc: s, maxUpload: maxUpload}
	httpkit.Get(r, "/", h.list)
	httpkit.Post(r, "/", h.upload)
}

type handlers struct {
	svc       svc.Service
	maxUpload int64
}

// swagger:route GET /memories Memories memoriesList
// @Summary The memory tree, newest first
// @Tags Memories
// @Produce json
// @Param limit query int false "At most this many memories (1-500)"
// @Success 200 {array} domain.Memory "ok"
// @Router /memories [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	var in domain.ListInput
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "limit must be an integer"), "limit")
		}
		in.Limit = n
	}
	return h.svc.List(r.Context(), in)
}

// swagger:route POST /memories Memories memoriesUpload
// @Summary Plant a memory: upload a photo with its title
// @Tags Memories
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param file formData file true "Image"
// @Success 201 {object} domain.Uploaded "stored"
// @Failure 400 {object} httpkit.Envelope "invalid upload"
// @Failure 503 {object} httpkit.Envelope "uploads disabled"
// @Router /memories [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.maxUpload+multipartSlack)
	if err := r.ParseMultipartForm(multipartSlack); err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "invalid or oversized upload"), "file")
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("multipart cleanup failed")
		}
	}()

	f, fh, err := r.FormFile("file")
	if err != nil {
		return nil, svc.ErrNoFile
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if ct, err = sniff(f); err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "unreadable upload"), "file")
		}
	}

	out, err := h.svc.Upload(r.Context(), domain.UploadInput{
		Title:       r.FormValue("title"),
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// sniff detects the content type from the first bytes and rewinds f
// the body has to stay seekable all the way to the object store
func sniff(f io.ReadSeeker) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return stdhttp.DetectContentType(head[:n]), nil
}

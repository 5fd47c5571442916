package web

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/JonMunkholm/mtgprice/internal/core"
)

// readUpload returns the uploaded list as decoded text. It accepts a
// multipart form with a "file" field, or the list as the raw body with an
// optional ?filename= hint for format detection.
//
// Bodies over Server.MaxBodySize fail with errBodyTooLarge. A request with
// no list fails with errNoUpload.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.readMultipart(r)
	}

	name := r.URL.Query().Get("filename")
	if name == "" {
		name = "upload"
	}
	content, err := core.ReadInput(r.Body)
	if err != nil {
		return "", nil, tooLarge(err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return "", nil, errNoUpload
	}
	return name, content, nil
}

func (s *Server) readMultipart(r *http.Request) (string, []byte, error) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, errNoUpload
		}
		if big := tooLarge(err); errors.Is(big, errBodyTooLarge) {
			return "", nil, big
		}
		return "", nil, fmt.Errorf("%w: %w", core.ErrUnreadableInput, err)
	}
	defer file.Close()

	content, err := core.ReadInput(file)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, content, nil
}

// tooLarge swaps a MaxBytesReader failure for errBodyTooLarge.
func tooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return fmt.Errorf("%w (limit %d bytes)", errBodyTooLarge, maxErr.Limit)
	}
	return err
}

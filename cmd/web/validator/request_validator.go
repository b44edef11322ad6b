package validator

import (
	"errors"
	"io"
	"net/http"
)

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrBodyTooLarge = errors.New("body too large")
)

type JSON struct {
	MaxBytes int64
}

func NewJSON() *JSON {
	return &JSON{MaxBytes: 1 << 20}
}

// ReadBody returns the raw request body, capped at MaxBytes. Parsing is left to
// the caller so unknown notification fields survive untouched.
func (v *JSON) ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, ErrEmptyBody
	}
	body := http.MaxBytesReader(w, r.Body, v.MaxBytes)
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrEmptyBody
	}
	return raw, nil
}

package service

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is an uploaded file as received from the form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DataURL encodes the upload as data:<mime>;base64,<payload>. The declared
// content type is used unless it is missing or generic, in which case the
// type is sniffed from the bytes.
func (u *Upload) DataURL() string {
	return "data:" + u.mediaType() + ";base64," + base64.StdEncoding.EncodeToString(u.Data)
}

func (u *Upload) mediaType() string {
	declared := strings.TrimSpace(u.ContentType)
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, err := mime.ParseMediaType(mimetype.Detect(u.Data).String())
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}

// DecodeDataURL splits a data URL produced by DataURL back into its media
// type and bytes.
func DecodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no payload")
	}
	mt, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return mt, data, nil
}

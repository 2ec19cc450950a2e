// Package archive parses MHTML multipart captures into a primary HTML
// document plus a table of embedded resources addressable by content-id.
package archive

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrMalformedArchive is returned when the input cannot be parsed as a
// multipart container at all. Fatal; the run cannot proceed.
var ErrMalformedArchive = errors.New("malformed mhtml archive")

// ErrNoHTMLPart is returned when the archive contains zero text/html parts.
var ErrNoHTMLPart = errors.New("no text/html part found in archive")

// Part is one section of the archive: parsed headers plus the
// transfer-decoded payload bytes.
type Part struct {
	// ContentType is the lowercased media type, e.g. "text/html".
	ContentType string
	// Charset is the charset declared on the Content-Type, may be empty.
	Charset string
	ContentID       string
	ContentLocation string
	// Body is the payload after Content-Transfer-Encoding decoding.
	Body []byte
}

// Archive is the parsed container: parts in document order plus the
// resource table keyed by normalized content-id. Both are built once and
// read-only afterward.
type Archive struct {
	Parts     []*Part
	Resources map[string]*Part
}

// Policy selects which text/html part becomes the primary document when an
// archive carries more than one. Longest is the robust default; some
// exporters embed placeholder HTML parts before the real capture.
type Policy string

const (
	PrimaryLongest Policy = "longest"
	PrimaryFirst   Policy = "first"
)

// ParsePolicy maps a user-facing string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PrimaryLongest):
		return PrimaryLongest, nil
	case string(PrimaryFirst):
		return PrimaryFirst, nil
	}
	return "", fmt.Errorf("unknown primary-part policy %q", s)
}

// Document is a decoded primary HTML part.
type Document struct {
	Part *Part
	Text string
	// Lossy reports that every candidate encoding failed and the text was
	// force-decoded with replacement characters.
	Lossy bool
}

// Parse reads the raw archive bytes and walks every part exactly once,
// registering content-id and content-location keys for addressable parts.
func Parse(raw []byte) (*Archive, error) {
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(raw)))
	header, err := tp.ReadMIMEHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}

	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: top-level content-type: %v", ErrMalformedArchive, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("%w: top-level type %q is not multipart", ErrMalformedArchive, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: multipart without boundary", ErrMalformedArchive)
	}

	a := &Archive{Resources: make(map[string]*Part)}
	if err := a.walkMultipart(tp.R, boundary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArchive, err)
	}
	return a, nil
}

func (a *Archive) walkMultipart(r io.Reader, boundary string) error {
	mr := multipart.NewReader(r, boundary)
	for {
		p, err := mr.NextRawPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			// Tolerate a truncated trailer once at least one part was read.
			if len(a.Parts) > 0 {
				log.Debug().Err(err).Msg("archive: truncated multipart trailer")
				return nil
			}
			return err
		}
		if err := a.addPart(p); err != nil {
			return err
		}
	}
}

func (a *Archive) addPart(p *multipart.Part) error {
	mediaType, params, err := mime.ParseMediaType(p.Header.Get("Content-Type"))
	if err != nil {
		mediaType, params = "application/octet-stream", nil
	}

	// Nested multipart: recurse so every leaf part is walked exactly once.
	if strings.HasPrefix(mediaType, "multipart/") {
		if b := params["boundary"]; b != "" {
			return a.walkMultipart(p, b)
		}
		return nil
	}

	body, err := decodeTransfer(p, p.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		// Keep whatever decoded; a single damaged part must not abort the run.
		log.Debug().Err(err).Str("type", mediaType).Msg("archive: partial transfer decode")
	}

	part := &Part{
		ContentType:     mediaType,
		Charset:         params["charset"],
		ContentID:       strings.TrimSpace(p.Header.Get("Content-ID")),
		ContentLocation: strings.TrimSpace(p.Header.Get("Content-Location")),
		Body:            body,
	}
	a.Parts = append(a.Parts, part)

	if part.ContentID != "" {
		a.Resources[NormalizeCID(part.ContentID)] = part
	}
	if part.ContentLocation != "" {
		a.Resources[NormalizeCID(part.ContentLocation)] = part
	}
	return nil
}

func decodeTransfer(r io.Reader, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		// The stdlib decoder skips \r and \n, so wrapped lines are fine.
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	body, err := io.ReadAll(r)
	return body, err
}

// NormalizeCID maps content-id and content-location spellings to one key
// space: the cid: prefix, surrounding angle brackets and whitespace are all
// stripped.
func NormalizeCID(value string) string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(strings.ToLower(v), "cid:") {
		v = v[4:]
	}
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "<")
	v = strings.TrimSuffix(v, ">")
	return strings.TrimSpace(v)
}

// Resource looks up a part by any cid-style reference. Misses are soft.
func (a *Archive) Resource(ref string) (*Part, bool) {
	p, ok := a.Resources[NormalizeCID(ref)]
	return p, ok
}

// Primary decodes and returns the primary HTML document under the given
// selection policy.
func (a *Archive) Primary(policy Policy) (*Document, error) {
	var best *Document
	for _, p := range a.Parts {
		if p.ContentType != "text/html" {
			continue
		}
		text, lossy := DecodeText(p.Body, p.Charset, p.ContentType)
		doc := &Document{Part: p, Text: text, Lossy: lossy}
		if policy == PrimaryFirst {
			return doc, nil
		}
		if best == nil || len(doc.Text) > len(best.Text) {
			best = doc
		}
	}
	if best == nil {
		return nil, ErrNoHTMLPart
	}
	return best, nil
}

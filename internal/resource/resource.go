// Package resource resolves cid: references found in markup and CSS into
// embedded data URIs or extracted asset files.
package resource

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/kkmin1/mhtml2html/internal/archive"
)

var (
	cssURLRe    = regexp.MustCompile(`url\(['"]?(cid:[^)"']+)['"]?\)`)
	cssImportRe = regexp.MustCompile(`@import\s+['"](cid:[^'"\s;]+)['"]`)
)

// Resolver turns cid: references into usable payloads. Whether a reference
// becomes an inline data URI or an extracted file is the caller's choice;
// misses are always soft and leave the original reference in place.
type Resolver struct {
	Archive *archive.Archive
	// Writer is required only for the extracted-asset mode.
	Writer *AssetWriter
}

// Lookup returns the part a cid-style reference addresses.
func (r *Resolver) Lookup(ref string) (*archive.Part, bool) {
	if r == nil || r.Archive == nil {
		return nil, false
	}
	return r.Archive.Resource(ref)
}

// DataURI resolves a reference to a self-describing inline payload:
// data:<mime>;base64,<bytes>. The boolean reports a table hit.
func (r *Resolver) DataURI(ref string) (string, bool) {
	part, ok := r.Lookup(ref)
	if !ok {
		log.Debug().Str("ref", ref).Msg("resource: unresolved cid reference")
		return "", false
	}
	mime := part.ContentType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(part.Body)), true
}

// ExtractAsset resolves a reference to a sibling asset file and returns its
// path relative to the output location.
func (r *Resolver) ExtractAsset(ref string) (string, bool) {
	part, ok := r.Lookup(ref)
	if !ok || r.Writer == nil {
		if !ok {
			log.Debug().Str("ref", ref).Msg("resource: unresolved cid reference")
		}
		return "", false
	}
	rel, err := r.Writer.WriteImage(part.ContentType, part.Body)
	if err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("resource: asset write failed")
		return "", false
	}
	return rel, true
}

// DecodeDataURI splits an embedded data:<mime>;base64,<payload> URI into
// its media type and raw bytes. Non-base64 or malformed URIs report false.
func DecodeDataURI(uri string) (string, []byte, bool) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return mime, data, true
}

// RewriteCSS substitutes resolvable cid references inside url(...) values
// and @import targets with data URIs. Unresolvable references are kept
// verbatim so already-resolved or broken CSS never aborts a conversion.
func (r *Resolver) RewriteCSS(css string) string {
	out := cssURLRe.ReplaceAllStringFunc(css, func(m string) string {
		ref := cssURLRe.FindStringSubmatch(m)[1]
		if uri, ok := r.DataURI(ref); ok {
			return "url('" + uri + "')"
		}
		return m
	})
	out = cssImportRe.ReplaceAllStringFunc(out, func(m string) string {
		ref := cssImportRe.FindStringSubmatch(m)[1]
		if uri, ok := r.DataURI(ref); ok {
			return "@import url('" + uri + "')"
		}
		return m
	})
	return out
}

// Package cdn derives public retrieval URLs for stored objects from
// container CDN metadata.
package cdn

import (
	"net/url"
	"strings"

	"github.com/attachstore/attachstore/pkg/types"
)

// Builder computes CDN base and object URLs. An explicit cname overrides
// the container's CDN hosts verbatim for both SSL and non-SSL requests.
type Builder struct {
	cname string
}

// NewBuilder creates a URL builder. cname may be empty.
func NewBuilder(cname string) *Builder {
	return &Builder{cname: strings.TrimSuffix(cname, "/")}
}

// BaseURL returns the CDN base for the container, honoring the cname
// override and the SSL preference.
func (b *Builder) BaseURL(container *types.ContainerInfo, useSSL bool) string {
	if b.cname != "" {
		return b.cname
	}
	if useSSL {
		return strings.TrimSuffix(container.CDNSSLURL, "/")
	}
	return strings.TrimSuffix(container.CDNURL, "/")
}

// ObjectURL returns the public retrieval URL for the object at key.
func (b *Builder) ObjectURL(container *types.ContainerInfo, useSSL bool, key string) string {
	return b.BaseURL(container, useSSL) + "/" + EscapePath(key)
}

// EscapePath percent-encodes an object path segment by segment, keeping
// the path separators. Literal ampersands are re-escaped to %26 as well,
// since CDN edges mistake them for query separators in stored paths.
func EscapePath(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = strings.ReplaceAll(url.PathEscape(segment), "&", "%26")
	}
	return strings.Join(segments, "/")
}

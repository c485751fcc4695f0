package types

import (
	"time"
)

// Credentials represents the resolved authentication record for the remote
// object-storage service. A resolver produces one Credentials value per
// backend activation; the value is not mutated afterwards.
type Credentials struct {
	Username   string `yaml:"username"`
	APIKey     string `yaml:"api_key"`
	ServiceNet bool   `yaml:"servicenet"`
	AuthURL    string `yaml:"auth_url"`
	Container  string `yaml:"container"`
	CNAME      string `yaml:"cname"`
}

// ContainerInfo is a handle to a remote container. CDN URLs are populated
// when the container is made public and are treated as immutable afterwards.
type ContainerInfo struct {
	Name      string    `json:"name"`
	CDNURL    string    `json:"cdn_url"`
	CDNSSLURL string    `json:"cdn_ssl_url"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag"`
	ContentType  string    `json:"content_type"`
}

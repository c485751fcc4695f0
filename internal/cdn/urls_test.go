package cdn

import (
	"testing"

	"github.com/attachstore/attachstore/pkg/types"
)

func testContainer() *types.ContainerInfo {
	return &types.ContainerInfo{
		Name:      "avatars",
		CDNURL:    "http://cdn.example",
		CDNSSLURL: "https://ssl.cdn.example",
		Public:    true,
	}
}

func TestBuilder_BaseURL(t *testing.T) {
	b := NewBuilder("")
	container := testContainer()

	if got := b.BaseURL(container, false); got != "http://cdn.example" {
		t.Errorf("expected plain CDN base, got %q", got)
	}
	if got := b.BaseURL(container, true); got != "https://ssl.cdn.example" {
		t.Errorf("expected SSL CDN base, got %q", got)
	}
}

func TestBuilder_CNAMEOverride(t *testing.T) {
	b := NewBuilder("http://assets.example.com")
	container := testContainer()

	// The cname wins for both SSL and non-SSL requests.
	if got := b.BaseURL(container, false); got != "http://assets.example.com" {
		t.Errorf("expected cname base, got %q", got)
	}
	if got := b.BaseURL(container, true); got != "http://assets.example.com" {
		t.Errorf("expected cname base for SSL too, got %q", got)
	}
}

func TestBuilder_ObjectURL(t *testing.T) {
	b := NewBuilder("")
	container := testContainer()

	got := b.ObjectURL(container, false, "a&b/c.jpg")
	want := "http://cdn.example/a%26b/c.jpg"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEscapePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "original/photo.jpg", "original/photo.jpg"},
		{"ampersand", "a&b/c.jpg", "a%26b/c.jpg"},
		{"spaces", "my photo.jpg", "my%20photo.jpg"},
		{"multiple ampersands", "a&b&c", "a%26b%26c"},
		{"preserves separators", "one/two/three.png", "one/two/three.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapePath(tt.in); got != tt.want {
				t.Errorf("EscapePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuilder_TrailingSlashTrimmed(t *testing.T) {
	container := &types.ContainerInfo{
		CDNURL:    "http://cdn.example/",
		CDNSSLURL: "https://ssl.cdn.example/",
	}

	b := NewBuilder("")
	if got := b.ObjectURL(container, false, "x.png"); got != "http://cdn.example/x.png" {
		t.Errorf("unexpected URL %q", got)
	}

	b = NewBuilder("http://assets.example.com/")
	if got := b.ObjectURL(container, true, "x.png"); got != "http://assets.example.com/x.png" {
		t.Errorf("unexpected URL %q", got)
	}
}

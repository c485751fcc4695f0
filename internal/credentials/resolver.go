package credentials

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	storageerrors "github.com/attachstore/attachstore/pkg/errors"
	"github.com/attachstore/attachstore/pkg/types"
)

// Source identifies where credentials come from. Exactly one of the three
// concrete variants is accepted: PathSource, ReaderSource, InlineSource.
type Source interface {
	credentialSource()
}

// PathSource reads a YAML credential file from the local filesystem.
type PathSource struct {
	Path string
}

// ReaderSource parses YAML credentials from an open reader.
type ReaderSource struct {
	Reader io.Reader
}

// InlineSource uses an already-parsed key/value mapping.
type InlineSource struct {
	Values map[string]interface{}
}

func (PathSource) credentialSource()   {}
func (ReaderSource) credentialSource() {}
func (InlineSource) credentialSource() {}

// Resolver turns a credential source into a normalized Credentials record.
// When the parsed document contains a sub-mapping keyed by the resolver's
// environment, that sub-mapping becomes the effective credential set;
// otherwise the whole document is treated as flat.
type Resolver struct {
	environment string
	logger      *slog.Logger
}

// NewResolver creates a resolver for the given deployment environment.
// An empty environment disables environment-keyed selection.
func NewResolver(environment string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		environment: environment,
		logger:      logger.With("component", "credentials"),
	}
}

// Resolve loads and normalizes credentials from src. It fails with a
// configuration error when src is not one of the accepted forms, the
// document cannot be parsed, or required keys are absent.
func (r *Resolver) Resolve(src Source) (*types.Credentials, error) {
	values, err := r.load(src)
	if err != nil {
		return nil, err
	}

	values = r.selectEnvironment(values)

	creds := &types.Credentials{
		Username:   stringValue(values, "username"),
		APIKey:     stringValue(values, "api_key"),
		ServiceNet: boolValue(values, "servicenet"),
		AuthURL:    stringValue(values, "auth_url"),
		Container:  stringValue(values, "container", "container_name"),
		CNAME:      stringValue(values, "cname"),
	}

	if creds.Username == "" || creds.APIKey == "" {
		return nil, storageerrors.New(storageerrors.ErrCodeMissingCredentials,
			"credential source must supply both username and api_key").
			WithComponent("credentials")
	}

	r.logger.Debug("credentials resolved",
		"username", creds.Username,
		"servicenet", creds.ServiceNet,
		"container", creds.Container)

	return creds, nil
}

func (r *Resolver) load(src Source) (map[string]interface{}, error) {
	switch s := src.(type) {
	case PathSource:
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, storageerrors.Newf(storageerrors.ErrCodeInvalidSource,
				"failed to read credential file %s", s.Path).
				WithComponent("credentials").WithCause(err)
		}
		return r.parse(data)

	case ReaderSource:
		if s.Reader == nil {
			return nil, storageerrors.New(storageerrors.ErrCodeInvalidSource,
				"credential reader is nil").WithComponent("credentials")
		}
		data, err := io.ReadAll(s.Reader)
		if err != nil {
			return nil, storageerrors.New(storageerrors.ErrCodeInvalidSource,
				"failed to read credential stream").
				WithComponent("credentials").WithCause(err)
		}
		return r.parse(data)

	case InlineSource:
		if s.Values == nil {
			return nil, storageerrors.New(storageerrors.ErrCodeInvalidSource,
				"inline credential mapping is nil").WithComponent("credentials")
		}
		normalized := make(map[string]interface{}, len(s.Values))
		for k, v := range s.Values {
			normalized[normalizeKey(k)] = normalizeValue(v)
		}
		return normalized, nil

	default:
		return nil, storageerrors.Newf(storageerrors.ErrCodeInvalidSource,
			"credential source must be a path, reader, or mapping, got %T", src).
			WithComponent("credentials")
	}
}

func (r *Resolver) parse(data []byte) (map[string]interface{}, error) {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, storageerrors.New(storageerrors.ErrCodeInvalidSource,
			"failed to parse credential document").
			WithComponent("credentials").WithCause(err)
	}
	return normalizeMap(raw), nil
}

// selectEnvironment picks the sub-mapping for the current environment when
// one is present; otherwise the document is used as-is.
func (r *Resolver) selectEnvironment(values map[string]interface{}) map[string]interface{} {
	if r.environment == "" {
		return values
	}
	sub, ok := values[normalizeKey(r.environment)]
	if !ok {
		return values
	}
	subMap, ok := sub.(map[string]interface{})
	if !ok {
		return values
	}
	r.logger.Debug("using environment-scoped credentials", "environment", r.environment)
	return subMap
}

// normalizeKey canonicalizes a mapping key: lower-case, leading colon
// stripped, dashes folded to underscores.
func normalizeKey(key string) string {
	key = strings.TrimSpace(strings.ToLower(key))
	key = strings.TrimPrefix(key, ":")
	return strings.ReplaceAll(key, "-", "_")
}

func normalizeMap(raw map[interface{}]interface{}) map[string]interface{} {
	normalized := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		normalized[normalizeKey(fmt.Sprintf("%v", k))] = normalizeValue(v)
	}
	return normalized
}

func normalizeValue(v interface{}) interface{} {
	if nested, ok := v.(map[interface{}]interface{}); ok {
		return normalizeMap(nested)
	}
	if nested, ok := v.(map[string]interface{}); ok {
		normalized := make(map[string]interface{}, len(nested))
		for k, val := range nested {
			normalized[normalizeKey(k)] = normalizeValue(val)
		}
		return normalized
	}
	return v
}

func stringValue(values map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := values[key]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

func boolValue(values map[string]interface{}, key string) bool {
	v, ok := values[key]
	if !ok || v == nil {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

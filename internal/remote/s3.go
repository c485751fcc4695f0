package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	awsconfig "github.com/scttfrdmn/cargoship/pkg/aws/config"
	cargoships3 "github.com/scttfrdmn/cargoship/pkg/aws/s3"

	storageerrors "github.com/attachstore/attachstore/pkg/errors"
	"github.com/attachstore/attachstore/pkg/types"
)

// Client implements types.RemoteClient against an S3-compatible endpoint.
// One authenticated client is shared process-wide across all attachment
// backends; it is safe for concurrent use.
type Client struct {
	client *s3.Client
	pool   *ClientPool
	config *Config
	creds  *types.Credentials
	logger *slog.Logger

	// CargoShip transporters are bucket-scoped; cache one per container.
	tmu          sync.Mutex
	transporters map[string]*cargoships3.Transporter
}

var _ types.RemoteClient = (*Client)(nil)

// New authenticates against the remote endpoint with the resolved
// credentials and returns a ready client. Authentication uses the
// username/API-key pair as a static credential provider; ServiceNet
// credentials select the internal endpoint when one is configured.
func New(ctx context.Context, creds *types.Credentials, cfg *Config, logger *slog.Logger) (*Client, error) {
	if creds == nil || creds.Username == "" || creds.APIKey == "" {
		return nil, storageerrors.New(storageerrors.ErrCodeMissingCredentials,
			"remote client requires resolved credentials with username and api_key").
			WithComponent("remote")
	}
	if cfg == nil {
		cfg = NewDefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "remote")

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithRetryMaxAttempts(cfg.MaxRetries),
		config.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(creds.Username, creds.APIKey, "")),
	)
	if err != nil {
		return nil, storageerrors.New(storageerrors.ErrCodeAuthenticationFailed,
			"failed to build remote session").
			WithComponent("remote").WithCause(err)
	}

	endpoint := resolveEndpoint(creds, cfg)
	clientOptions := func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if cfg.ForcePathStyle {
			o.UsePathStyle = true
		}
	}

	client := s3.NewFromConfig(awsCfg, clientOptions)

	pool, err := NewClientPool(cfg.PoolSize, func() (*s3.Client, error) {
		return s3.NewFromConfig(awsCfg, clientOptions), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client pool: %w", err)
	}

	logger.Info("remote client ready",
		"endpoint", endpoint,
		"servicenet", creds.ServiceNet,
		"pool_size", cfg.PoolSize,
		"optimized_uploads", cfg.EnableOptimizedUploads)

	return &Client{
		client:       client,
		pool:         pool,
		config:       cfg,
		creds:        creds,
		logger:       logger,
		transporters: make(map[string]*cargoships3.Transporter),
	}, nil
}

// resolveEndpoint picks the service endpoint: an explicit auth_url in the
// credentials wins, then the internal endpoint for ServiceNet accounts.
func resolveEndpoint(creds *types.Credentials, cfg *Config) string {
	if creds.AuthURL != "" {
		return creds.AuthURL
	}
	if creds.ServiceNet && cfg.InternalEndpoint != "" {
		return cfg.InternalEndpoint
	}
	return cfg.Endpoint
}

// CreateContainer creates the named container. A container that already
// exists under this account is returned as-is; a name collision with
// another account surfaces as a remote error.
func (c *Client) CreateContainer(ctx context.Context, name string) (*types.ContainerInfo, error) {
	client := c.pool.Get()
	defer c.pool.Put(client)

	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	if c.config.Region != "" && c.config.Region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(c.config.Region),
		}
	}

	_, err := client.CreateBucket(ctx, input)
	if err != nil {
		var owned *s3types.BucketAlreadyOwnedByYou
		if !errors.As(err, &owned) {
			return nil, storageerrors.Newf(storageerrors.ErrCodeContainerCreate,
				"failed to create container %q", name).
				WithComponent("remote").WithOperation("CreateContainer").
				WithContainer(name).WithCause(err)
		}
	}

	c.logger.Debug("container created", "container", name)

	return &types.ContainerInfo{
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// MakePublic enables public read access for the container and returns its
// handle with CDN base URLs populated.
func (c *Client) MakePublic(ctx context.Context, name string) (*types.ContainerInfo, error) {
	client := c.pool.Get()
	defer c.pool.Put(client)

	_, err := client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
		Bucket: aws.String(name),
		ACL:    s3types.BucketCannedACLPublicRead,
	})
	if err != nil {
		return nil, storageerrors.Newf(storageerrors.ErrCodeContainerPublish,
			"failed to make container %q public", name).
			WithComponent("remote").WithOperation("MakePublic").
			WithContainer(name).WithCause(err)
	}

	cdnURL, cdnSSLURL := c.cdnURLs(name)
	c.logger.Debug("container published", "container", name, "cdn_url", cdnURL)

	return &types.ContainerInfo{
		Name:      name,
		CDNURL:    cdnURL,
		CDNSSLURL: cdnSSLURL,
		Public:    true,
		CreatedAt: time.Now(),
	}, nil
}

// ObjectExists reports whether an object is present at key.
func (c *Client) ObjectExists(ctx context.Context, container, key string) (bool, error) {
	client := c.pool.Get()
	defer c.pool.Put(client)

	_, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, storageerrors.Newf(storageerrors.ErrCodeObjectRead,
			"failed to check object %q", key).
			WithComponent("remote").WithOperation("ObjectExists").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	return true, nil
}

// ReadObject fetches the full content of the object at key.
func (c *Client) ReadObject(ctx context.Context, container, key string) ([]byte, error) {
	client := c.pool.Get()
	defer c.pool.Put(client)

	result, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, storageerrors.Newf(storageerrors.ErrCodeObjectNotFound,
				"object %q does not exist", key).
				WithComponent("remote").WithOperation("ReadObject").
				WithContainer(container).WithKey(key).WithCause(err)
		}
		return nil, storageerrors.Newf(storageerrors.ErrCodeObjectRead,
			"failed to read object %q", key).
			WithComponent("remote").WithOperation("ReadObject").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, storageerrors.Newf(storageerrors.ErrCodeObjectRead,
			"failed to read body of object %q", key).
			WithComponent("remote").WithOperation("ReadObject").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	return data, nil
}

// WriteObject creates or overwrites the object at key from r.
func (c *Client) WriteObject(ctx context.Context, container, key string, r io.Reader, size int64) error {
	client := c.pool.Get()
	defer c.pool.Put(client)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(container),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(detectContentType(key)),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	_, err := client.PutObject(ctx, input)
	if err != nil {
		return storageerrors.Newf(storageerrors.ErrCodeObjectWrite,
			"failed to write object %q", key).
			WithComponent("remote").WithOperation("WriteObject").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	return nil
}

// WriteObjectFromFile creates or overwrites the object at key from a local
// file, using the CargoShip transporter when optimized uploads are enabled.
func (c *Client) WriteObjectFromFile(ctx context.Context, container, key, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return storageerrors.Newf(storageerrors.ErrCodeObjectWrite,
			"failed to open local file %q", localPath).
			WithComponent("remote").WithOperation("WriteObjectFromFile").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return storageerrors.Newf(storageerrors.ErrCodeObjectWrite,
			"failed to stat local file %q", localPath).
			WithComponent("remote").WithOperation("WriteObjectFromFile").
			WithContainer(container).WithKey(key).WithCause(err)
	}

	if c.config.EnableOptimizedUploads {
		archive := cargoships3.Archive{
			Key:          key,
			Reader:       f,
			Size:         info.Size(),
			StorageClass: awsconfig.StorageClassStandard,
			Metadata: map[string]string{
				"attachstore-upload": "true",
				"content-type":       detectContentType(key),
			},
		}

		result, uploadErr := c.transporterFor(container).Upload(ctx, archive)
		if uploadErr == nil {
			c.logger.Debug("optimized upload completed",
				"key", key,
				"size", info.Size(),
				"throughput", result.Throughput,
				"duration", result.Duration)
			return nil
		}

		c.logger.Warn("optimized upload failed, falling back to standard client",
			"key", key, "error", uploadErr)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return storageerrors.Newf(storageerrors.ErrCodeObjectWrite,
				"failed to rewind local file %q", localPath).
				WithComponent("remote").WithOperation("WriteObjectFromFile").
				WithContainer(container).WithKey(key).WithCause(err)
		}
	}

	return c.WriteObject(ctx, container, key, f, info.Size())
}

// DeleteObject removes the object at key; a missing key is success.
func (c *Client) DeleteObject(ctx context.Context, container, key string) error {
	client := c.pool.Get()
	defer c.pool.Put(client)

	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return storageerrors.Newf(storageerrors.ErrCodeObjectDelete,
			"failed to delete object %q", key).
			WithComponent("remote").WithOperation("DeleteObject").
			WithContainer(container).WithKey(key).WithCause(err)
	}
	return nil
}

// Stats returns client pool statistics.
func (c *Client) Stats() PoolStats {
	return c.pool.Stats()
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.pool.Close()
}

func (c *Client) transporterFor(container string) *cargoships3.Transporter {
	c.tmu.Lock()
	defer c.tmu.Unlock()

	if t, ok := c.transporters[container]; ok {
		return t
	}

	cargoConfig := awsconfig.S3Config{
		Bucket:             container,
		StorageClass:       awsconfig.StorageClassStandard,
		MultipartThreshold: 32 * 1024 * 1024,
		MultipartChunkSize: 16 * 1024 * 1024,
		Concurrency:        c.config.PoolSize,
	}
	t := cargoships3.NewTransporter(c.client, cargoConfig)
	c.transporters[container] = t
	return t
}

// cdnURLs synthesizes the public CDN base URLs for a container.
func (c *Client) cdnURLs(name string) (string, string) {
	sslDomain := c.config.CDNSSLDomain
	if sslDomain == "" {
		sslDomain = c.config.CDNDomain
	}
	return fmt.Sprintf("http://%s.%s", name, c.config.CDNDomain),
		fmt.Sprintf("https://%s.%s", name, sslDomain)
}

func isNotFound(err error) bool {
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *s3types.NotFound
	return errors.As(err, &notFound)
}

func detectContentType(key string) string {
	idx := strings.LastIndex(key, ".")
	if idx < 0 {
		return "application/octet-stream"
	}
	switch strings.ToLower(key[idx+1:]) {
	case "json":
		return "application/json"
	case "xml":
		return "application/xml"
	case "html", "htm":
		return "text/html"
	case "txt":
		return "text/plain"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

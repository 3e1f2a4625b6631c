package storage

import (
	"fmt"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/hyeonlab/unihub/config"
)

// PresignedUpload is everything a client needs to upload one object directly
// to the bucket.
type PresignedUpload struct {
	URL      string `json:"url"`
	Method   string `json:"method"`
	Key      string `json:"key"`
	MaxBytes int64  `json:"max_bytes"`
}

// Client wraps the object-storage bucket used for presigned uploads and
// prefix cleanup. A nil Client is valid and turns every operation into a
// no-op, so the API keeps working in environments without storage credentials.
type Client struct {
	bucket    *oss.Bucket
	mediaRoot string
	expireSec int64
	maxBytes  int64
}

// New builds a storage client from configuration. Returns (nil, nil) when no
// endpoint is configured.
func New(cfg config.AppConfig) (*Client, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, nil
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &Client{
		bucket:    bucket,
		mediaRoot: cfg.OSSMediaRoot,
		expireSec: int64(cfg.PresignExpireSec),
		maxBytes:  cfg.UploadMaxBytes,
	}, nil
}

// PresignUpload signs a PUT URL for one object key below the media root. The
// signature covers a public-read ACL and a content-length cap, so an upload
// exceeding the cap or dropping the ACL is rejected by the storage service.
func (c *Client) PresignUpload(key string) (*PresignedUpload, error) {
	if c == nil {
		return nil, nil
	}
	fullKey := c.mediaRoot + "/" + key
	url, err := c.bucket.SignURL(fullKey, oss.HTTPPut, c.expireSec,
		oss.ObjectACL(oss.ACLPublicRead),
		oss.ContentLength(c.maxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("sign upload url for %s: %w", fullKey, err)
	}
	return &PresignedUpload{
		URL:      url,
		Method:   "PUT",
		Key:      fullKey,
		MaxBytes: c.maxBytes,
	}, nil
}

// ImagePrefix is the storage prefix holding images attached to one resource,
// e.g. images/post/42/.
func ImagePrefix(kind string, id uint) string {
	return fmt.Sprintf("images/%s/%d/", kind, id)
}

// DeletePrefix removes every object below the media root with the given
// prefix. Used when a post or answer is replaced or deleted.
func (c *Client) DeletePrefix(prefix string) error {
	if c == nil {
		return nil
	}
	fullPrefix := c.mediaRoot + "/" + prefix
	marker := ""
	for {
		res, err := c.bucket.ListObjects(oss.Prefix(fullPrefix), oss.Marker(marker), oss.MaxKeys(1000))
		if err != nil {
			return fmt.Errorf("list objects under %s: %w", fullPrefix, err)
		}
		if len(res.Objects) > 0 {
			keys := make([]string, 0, len(res.Objects))
			for _, obj := range res.Objects {
				keys = append(keys, obj.Key)
			}
			if _, err := c.bucket.DeleteObjects(keys); err != nil {
				return fmt.Errorf("delete objects under %s: %w", fullPrefix, err)
			}
		}
		if !res.IsTruncated {
			return nil
		}
		marker = res.NextMarker
	}
}

package client

import (
	"log/slog"
	"time"

	"cloud.google.com/go/storage"

	"checkout-funnel/internal/config"
	"checkout-funnel/internal/model"
)

const signedURLTTL = time.Hour

// DownloadLinkIssuer hands out time-limited signed URLs for the product
// archive. Availability wins over link freshness: every failure path falls
// back to the static public link instead of erroring.
type DownloadLinkIssuer struct {
	client      *storage.Client
	bucket      string
	objectKey   string
	fallbackURL string
	logger      *slog.Logger
}

// NewDownloadLinkIssuer accepts a nil storage client; the issuer then serves
// the fallback link only.
func NewDownloadLinkIssuer(client *storage.Client, cfg *config.Storage, logger *slog.Logger) *DownloadLinkIssuer {
	return &DownloadLinkIssuer{
		client:      client,
		bucket:      cfg.Bucket,
		objectKey:   cfg.ObjectKey,
		fallbackURL: cfg.FallbackURL,
		logger:      logger,
	}
}

func (i *DownloadLinkIssuer) fallback(reason string, err error) *model.DownloadLink {
	link := &model.DownloadLink{
		URL:     i.fallbackURL,
		Warning: reason,
	}
	if err != nil {
		link.Err = err.Error()
		i.logger.Error("Falling back to static download link", "reason", reason, "error", err)
	} else {
		i.logger.Warn("Falling back to static download link", "reason", reason)
	}
	return link
}

// Issue never fails: it returns either a signed URL or the fallback link.
func (i *DownloadLinkIssuer) Issue() *model.DownloadLink {
	if i.client == nil || i.bucket == "" || i.objectKey == "" {
		return i.fallback("Using fallback link due to missing storage configuration", nil)
	}

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(signedURLTTL),
	}

	url, err := i.client.Bucket(i.bucket).SignedURL(i.objectKey, opts)
	if err != nil {
		return i.fallback("Using fallback link due to storage access issues", err)
	}

	i.logger.Info("Generated signed download URL", "bucket", i.bucket, "object", i.objectKey)
	return &model.DownloadLink{URL: url}
}

// Package storage wraps the MinIO client used to export checklist history.
//
// The Client interface keeps the handful of calls the exporter needs so tests
// can swap in core/storage/mocks. It works against AWS S3 and self-hosted MinIO.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	err = storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region)
package storage

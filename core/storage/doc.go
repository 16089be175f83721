// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client; reference databases are mirrored in a bucket so
// machines without access to the DAT site can still load them. The abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface exposes only what the mirror needs, which keeps the
// testify mock in core/storage/mocks small:
//
//   - BucketExists / MakeBucket (see EnsureBucket)
//   - PutObject: uploads a downloaded DAT archive
//   - GetObject / StatObject: read a mirrored DAT archive
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage

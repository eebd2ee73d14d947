package catalog

import (
	"context"
	"strings"
)

// SourceBuiltin selects the built-in catalog.
const SourceBuiltin = "builtin"

// Load builds the catalog named by source: "builtin" (or empty), an
// "s3://bucket/key" object, or a local file path.
func Load(ctx context.Context, source string, opts S3Options) (*Catalog, error) {
	switch {
	case source == "" || source == SourceBuiltin:
		return Builtin(), nil
	case strings.HasPrefix(source, "s3://"):
		bucket, key, err := ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		client, err := s3Client(ctx, opts)
		if err != nil {
			return nil, err
		}
		return LoadS3(ctx, client, bucket, key)
	default:
		return LoadFile(source)
	}
}

package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"opsboard/core/storage"
	"opsboard/feature/history/models"

	"github.com/minio/minio-go/v7"
)

// exportPrefix is the object prefix of exported days.
const exportPrefix = "history/"

// Exporter writes archived days to object storage as JSON.
type Exporter struct {
	client storage.Client
	bucket string
}

// NewExporter creates an exporter writing to bucket.
func NewExporter(client storage.Client, bucket string) *Exporter {
	return &Exporter{client: client, bucket: bucket}
}

// ObjectKey returns the object name of a day's export.
func ObjectKey(date string) string {
	return exportPrefix + date + ".json"
}

// Export uploads snaps as history/<date>.json and returns the object key.
func (e *Exporter) Export(ctx context.Context, date string, snaps []models.Snapshot) (string, error) {
	if snaps == nil {
		snaps = []models.Snapshot{}
	}
	body, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export of %s: %w", date, err)
	}

	key := ObjectKey(date)
	_, err = e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Load reads an exported day back.
func (e *Exporter) Load(ctx context.Context, date string) ([]models.Snapshot, error) {
	key := ObjectKey(date)
	obj, err := e.client.GetObject(ctx, e.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer obj.Close()

	var snaps []models.Snapshot
	if err := json.NewDecoder(obj).Decode(&snaps); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return snaps, nil
}

// Days lists the exported dates in ascending order.
func (e *Exporter) Days(ctx context.Context) ([]string, error) {
	// Stops the lister when we return early on an error.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var days []string
	for obj := range e.client.ListObjects(ctx, e.bucket, minio.ListObjectsOptions{Prefix: exportPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, exportPrefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		days = append(days, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(days)
	return days, nil
}

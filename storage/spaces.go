package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nijaru/vidpost/config"
	"github.com/nijaru/vidpost/errors"
)

// SpacesArchive stores finished transcripts in a DigitalOcean Spaces (or any
// S3 compatible) bucket.
type SpacesArchive struct {
	client *s3.Client
	bucket string
	now    func() time.Time
}

type archivedTranscript struct {
	RunID     string    `json:"run_id"`
	Filename  string    `json:"filename"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSpacesArchive(ctx context.Context, cfg config.ArchiveConfig) (*SpacesArchive, error) {
	const op = "storage.NewSpacesArchive"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, errors.Internal(op, err, "unable to load SDK config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &SpacesArchive{
		client: client,
		bucket: cfg.Bucket,
		now:    time.Now,
	}, nil
}

func (s *SpacesArchive) SaveTranscript(ctx context.Context, runID, filename, text string) error {
	const op = "SpacesArchive.SaveTranscript"

	data, err := json.Marshal(archivedTranscript{
		RunID:     runID,
		Filename:  filename,
		Text:      text,
		Timestamp: s.now().UTC(),
	})
	if err != nil {
		return errors.Internal(op, err, "failed to marshal transcript")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(runID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.Internal(op, err, "failed to save to Spaces")
	}

	return nil
}

func objectKey(runID string) string {
	return fmt.Sprintf("transcripts/%s.json", runID)
}

// Package publish uploads the rendered songbook (HTML page plus MIDI files)
// to an S3 bucket.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/DPDmancul/latex-songs-to-html/util"
)

// Upload pushes every .html and .mid file under dir to the bucket, keyed by
// its path relative to dir. It returns the number of uploaded objects.
func Upload(dir, bucket, region, endpoint string) (int, error) {
	if bucket == "" {
		return 0, fmt.Errorf("no bucket configured")
	}

	cfg := &aws.Config{Region: aws.String(region)}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return 0, err
	}
	svc := s3.New(sess)

	files, err := util.GatherFiles(dir, []string{".html", ".mid"}, 0)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, path := range files {
		key, err := filepath.Rel(dir, path)
		if err != nil {
			return count, err
		}
		key = filepath.ToSlash(key)
		if err := putFile(svc, bucket, key, path); err != nil {
			return count, fmt.Errorf("uploading %s: %w", key, err)
		}
		fmt.Printf("Uploaded %s\n", key)
		count++
	}
	return count, nil
}

func putFile(svc *s3.S3, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(path)),
	})
	return err
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".mid":
		return "audio/midi"
	}
	return "application/octet-stream"
}

package blob

import (
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store keeps thumbnails in a single S3 bucket fronted by a public base URL
// (CDN or the bucket website endpoint).
type S3Store struct {
	bucket     string
	publicBase string
	uploader   *s3manager.Uploader
	svc        *s3.S3
}

func NewS3Store(region, bucket, publicBase string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(publicBase, "/") {
		publicBase += "/"
	}
	return &S3Store{
		bucket:     bucket,
		publicBase: publicBase,
		uploader:   s3manager.NewUploader(sess),
		svc:        s3.New(sess),
	}, nil
}

func (s *S3Store) Upload(key string, body io.Reader) error {
	_, err := s.uploader.Upload(&s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	return err
}

func (s *S3Store) PublicURL(key string) string {
	return s.publicBase + key
}

func (s *S3Store) Remove(keys []string) error {
	for _, key := range keys {
		_, err := s.svc.DeleteObject(&s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// KeyFromURL strips the public base. URLs minted by a different store (or
// hand-entered by a user) yield false and are left alone by delete cascades.
func (s *S3Store) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, s.publicBase) {
		return "", false
	}
	key := strings.TrimPrefix(url, s.publicBase)
	return key, key != ""
}

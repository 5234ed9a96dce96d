package media

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"

	"github.com/squadup/squadnet/utils"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const (
	TestS3Bucket      = "squadnet-dev-media"
	ProdS3MediaBucket = "squadnet-media-uploads"
)

type S3MediaStore struct {
	bucket    string
	urlPrefix string
	uploader  *s3manager.Uploader
	svc       *s3.S3
}

// NewS3MediaStore stores media in the given bucket. Served URLs are
// urlPrefix+key; the prefix usually points at a CDN distribution in front of
// the bucket (MEDIA_URL_PREFIX).
func NewS3MediaStore(bucket string) (*S3MediaStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(os.Getenv("AWS_REGION")),
	})
	if err != nil {
		return nil, err
	}

	uploader := s3manager.NewUploader(sess)

	return &S3MediaStore{
		bucket:    bucket,
		urlPrefix: os.Getenv("MEDIA_URL_PREFIX"),
		uploader:  uploader,
		svc:       s3.New(session.Must(sess, err)),
	}, nil
}

// Save uploads the image bytes keyed by their md5 digest plus extension.
// Re-uploading identical content is a no-op returning the existing key.
func (s *S3MediaStore) Save(r io.Reader, ext string) (key string, err error) {
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		return "", errors.New("refuse to store empty media")
	}

	key, err = utils.TextToMd5Hash(string(body))
	if err != nil {
		return "", err
	}
	key = key + ext

	if !s.isKeyExisted(key) {
		_, err = s.uploader.Upload(&s3manager.UploadInput{
			ACL:    aws.String("public-read"),
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
	}
	return key, err
}

func (s *S3MediaStore) isKeyExisted(key string) bool {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3MediaStore) GetUrlFromKey(key string) string {
	return s.urlPrefix + key
}

func (s *S3MediaStore) CleanUp() {
	// do nothing for s3
}

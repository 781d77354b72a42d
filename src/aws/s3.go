package aws

import (
	"context"
	"io"

	Aws "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/seventv/IconProcessor/src/global"
	"github.com/seventv/IconProcessor/src/utils"
	"github.com/sirupsen/logrus"
)

var (
	AclPublicRead       = utils.StringPointer(s3.ObjectCannedACLPublicRead)
	DefaultCacheControl = utils.StringPointer("public, max-age=15552000")
)

type S3Instance struct {
	uploader *s3manager.Uploader
}

func NewS3(ctx global.Context) global.AwsS3 {
	cfg := ctx.Config().Aws

	awsCfg := Aws.NewConfig().WithRegion(cfg.Region)
	if cfg.AccessToken != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessToken, cfg.SecretKey, ""))
	}
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		logrus.Fatal("failed to create aws session: ", err)
	}

	return &S3Instance{
		uploader: s3manager.NewUploader(sess),
	}
}

func (s *S3Instance) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl, cacheControl *string) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       Aws.String(bucket),
		Key:          Aws.String(key),
		Body:         data,
		ContentType:  contentType,
		ACL:          acl,
		CacheControl: cacheControl,
	})

	return err
}

package storage

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
	})
}

var testOpts = S3Options{
	Region:       "us-east-1",
	RootUser:     "minioadmin",
	RootPassword: "minioadmin",
	BaseEndpoint: "http://127.0.0.1:9000",
	Bucket:       "survey-photos",
}

func TestNewS3Store_AppliesOptions(t *testing.T) {
	stubSeams(t)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	st, err := NewS3Store(context.Background(), testOpts)
	require.NoError(t, err)
	assert.Equal(t, "survey-photos", st.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	stubSeams(t)
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), testOpts)
	require.ErrorContains(t, err, "no config")
}

func TestPut(t *testing.T) {
	stubSeams(t)

	var got *s3.PutObjectInput
	var body []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		got = in
		body, _ = io.ReadAll(in.Body)
		return &s3.PutObjectOutput{}, nil
	}

	st := &S3Store{client: &s3.Client{}, bucket: "survey-photos"}
	require.NoError(t, st.Put(context.Background(), "k/1", "image/jpeg", []byte{1, 2, 3}))

	require.NotNil(t, got)
	assert.Equal(t, "survey-photos", aws.ToString(got.Bucket))
	assert.Equal(t, "k/1", aws.ToString(got.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(got.ContentType))
	assert.Equal(t, int64(3), aws.ToInt64(got.ContentLength))
	assert.Equal(t, []byte{1, 2, 3}, body)
}

func TestPut_Error(t *testing.T) {
	stubSeams(t)
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket missing")
	}

	st := &S3Store{client: &s3.Client{}, bucket: "b"}
	err := st.Put(context.Background(), "k", "image/png", []byte{1})
	require.ErrorContains(t, err, "put object k")
}

func TestNewPhotoKey(t *testing.T) {
	now := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	k1 := NewPhotoKey(now, "inlet_photo")
	k2 := NewPhotoKey(now, "inlet_photo")

	assert.Regexp(t, regexp.MustCompile(`^surveys/2025/06/03/inlet_photo/[0-9a-f-]{36}$`), k1)
	assert.NotEqual(t, k1, k2)
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type S3Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type AwsS3EncryptionType string

const (
	ServerSideEncryptionAes256 AwsS3EncryptionType = "AES256"
	ServerSideEncryptionAwsKms AwsS3EncryptionType = "aws:kms"
)

type WheelStorageAWS struct {
	Client            S3Client
	Bucket            string
	Context           context.Context
	EncryptionEnabled bool
	EncryptionType    AwsS3EncryptionType
	KMSEncryptionId   string
}

func NewAWSWheelStorage(bucketName string, encryptionEnabled bool, encryptionType string, KMSEncryptionId string) (*WheelStorageAWS, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not defined")
	}
	ctx, client, err := GetAWSStorageClient()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve aws storage client")
	}
	wheelStorage := &WheelStorageAWS{
		Context: ctx,
		Client:  client,
		Bucket:  bucketName,
	}
	if encryptionEnabled {
		wheelStorage.EncryptionEnabled = true
		if encryptionType == "AES256" {
			wheelStorage.EncryptionType = ServerSideEncryptionAes256
		} else if encryptionType == "KMS" {
			if KMSEncryptionId == "" {
				return nil, fmt.Errorf("KMS encryption requested but no KMS key specified")
			}
			wheelStorage.EncryptionType = ServerSideEncryptionAwsKms
			wheelStorage.KMSEncryptionId = KMSEncryptionId
		} else {
			return nil, fmt.Errorf("unknown encryption type specified for aws wheel bucket: %v", encryptionType)
		}
	}

	return wheelStorage, nil
}

func (wsa *WheelStorageAWS) WheelExists(wheelName, storedWheelPath string) (bool, error) {
	input := &s3.HeadObjectInput{
		Bucket: aws.String(wsa.Bucket),
		Key:    aws.String(storedWheelPath),
	}

	_, err := wsa.Client.HeadObject(wsa.Context, input)
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) {
			switch apiError.(type) {
			case *types.NotFound:
				slog.Debug("wheel is not available", "bucket", wsa.Bucket, "path", storedWheelPath)
				return false, nil
			default:
				slog.Warn("either you don't have access to the bucket or another error occurred",
					"bucket", wsa.Bucket,
					"error", err)
			}
		}
		return false, fmt.Errorf("unable to get object attributes: %v", err)
	}
	return true, nil
}

func (wsa *WheelStorageAWS) StoreWheelFile(fileContents []byte, wheelName, storedWheelPath string) error {
	input := &s3.PutObjectInput{
		Body:   bytes.NewReader(fileContents),
		Bucket: aws.String(wsa.Bucket),
		Key:    aws.String(storedWheelPath),
	}

	// support for encryption
	if wsa.EncryptionEnabled {
		input.ServerSideEncryption = types.ServerSideEncryption(wsa.EncryptionType)
		if wsa.EncryptionType == ServerSideEncryptionAwsKms {
			input.SSEKMSKeyId = aws.String(wsa.KMSEncryptionId)
		}
	}

	_, err := wsa.Client.PutObject(wsa.Context, input)
	if err != nil {
		slog.Error("failed to write wheel to bucket", "bucket", wsa.Bucket, "error", err)
		return err
	}
	return nil
}

func (wsa *WheelStorageAWS) RetrieveWheel(localWheelPath, wheelName, storedWheelPath string) (*string, error) {
	output, err := wsa.Client.GetObject(wsa.Context, &s3.GetObjectInput{
		Bucket: aws.String(wsa.Bucket),
		Key:    aws.String(storedWheelPath),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read data from bucket: %v", err)
	}
	defer output.Body.Close()

	file, err := os.Create(localWheelPath)
	if err != nil {
		return nil, fmt.Errorf("unable to create file: %v", err)
	}
	defer file.Close()

	if _, err = io.Copy(file, output.Body); err != nil {
		return nil, fmt.Errorf("unable to write data to file: %v", err)
	}
	fileName, err := filepath.Abs(file.Name())
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path for file: %v", err)
	}
	return &fileName, nil
}

func (wsa *WheelStorageAWS) DeleteStoredWheel(wheelName, storedWheelPath string) error {
	_, err := wsa.Client.DeleteObject(wsa.Context, &s3.DeleteObjectInput{
		Bucket: aws.String(wsa.Bucket),
		Key:    aws.String(storedWheelPath),
	})
	if err != nil {
		return fmt.Errorf("unable to delete file '%v' from bucket: %v", storedWheelPath, err)
	}
	return nil
}

func GetAWSStorageClient() (context.Context, *s3.Client, error) {
	ctx := context.Background()
	sdkConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return ctx, nil, err
	}
	return ctx, s3.NewFromConfig(sdkConfig), nil
}

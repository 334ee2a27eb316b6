package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// WheelStorage keeps dev wheel artifacts of pipeline runs in object storage.
type WheelStorage interface {
	StoreWheelFile(fileContents []byte, wheelName, storedWheelPath string) error
	RetrieveWheel(localWheelPath, wheelName, storedWheelPath string) (*string, error)
	DeleteStoredWheel(wheelName, storedWheelPath string) error
	WheelExists(wheelName, storedWheelPath string) (bool, error)
}

// StoredWheelPath is the bucket layout for dev wheels: one prefix per
// package, dev channel separated from releases.
func StoredWheelPath(packageName string, wheelName string) string {
	return fmt.Sprintf("%s/dev/%s", packageName, wheelName)
}

func NewWheelStorage() (WheelStorage, error) {
	uploadDestination := strings.ToLower(os.Getenv("WHEEL_UPLOAD_DESTINATION"))
	slog.Info("initializing wheel storage", "destination", uploadDestination)

	switch uploadDestination {
	case "aws":
		bucketName := strings.ToLower(os.Getenv("AWS_S3_BUCKET"))
		encryptionEnabled := os.Getenv("WHEEL_UPLOAD_S3_ENCRYPTION_ENABLED") == "true"
		encryptionType := os.Getenv("WHEEL_UPLOAD_S3_ENCRYPTION_TYPE")
		encryptionKmsId := os.Getenv("WHEEL_UPLOAD_S3_ENCRYPTION_KMS_ID")

		wheelStorage, err := NewAWSWheelStorage(bucketName, encryptionEnabled, encryptionType, encryptionKmsId)
		if err != nil {
			slog.Error("failed to create AWS wheel storage", "error", err)
			return nil, fmt.Errorf("error while creating AWS wheel storage: %v", err)
		}
		return wheelStorage, nil
	case "gcp":
		bucketName := strings.ToLower(os.Getenv("GOOGLE_STORAGE_WHEEL_BUCKET"))
		if bucketName == "" {
			return nil, fmt.Errorf("GOOGLE_STORAGE_WHEEL_BUCKET is not defined")
		}
		ctx, client, err := GetGoogleStorageClient()
		if err != nil {
			return nil, fmt.Errorf("could not retrieve google storage client: %v", err)
		}
		return &WheelStorageGcp{
			Client:  client,
			Bucket:  client.Bucket(bucketName),
			Context: ctx,
		}, nil
	case "azure":
		containerName := strings.ToLower(os.Getenv("AZURE_STORAGE_CONTAINER"))
		if containerName == "" {
			return nil, fmt.Errorf("AZURE_STORAGE_CONTAINER is not defined")
		}
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure credential: %v", err)
		}
		client, err := azblob.NewClient(
			fmt.Sprintf("https://%s.blob.core.windows.net", os.Getenv("AZURE_STORAGE_ACCOUNT_NAME")),
			cred,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure blob client: %v", err)
		}
		return &WheelStorageAzure{
			ServiceClient: client,
			ContainerName: containerName,
			Context:       context.Background(),
		}, nil
	case "mock":
		return &MockWheelStorage{}, nil
	default:
		return nil, fmt.Errorf("wheel upload destination '%v' is not supported, expected one of: aws, gcp, azure", uploadDestination)
	}
}

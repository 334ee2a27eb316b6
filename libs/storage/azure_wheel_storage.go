package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

type WheelStorageAzure struct {
	ServiceClient *azblob.Client
	ContainerName string
	Context       context.Context
}

func (wsa *WheelStorageAzure) WheelExists(wheelName string, storedWheelPath string) (bool, error) {
	slog.Debug("checking if wheel exists in Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"wheelName", wheelName)

	blobClient := wsa.ServiceClient.ServiceClient().NewContainerClient(wsa.ContainerName).NewBlobClient(storedWheelPath)

	resp, err := blobClient.GetProperties(context.TODO(), nil)
	if err != nil {
		slog.Error("failed to get blob properties",
			"container", wsa.ContainerName,
			"path", storedWheelPath,
			"error", err)
		return false, err
	}
	slog.Debug("blob found",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"size", resp.ContentLength,
		"lastModified", resp.LastModified,
	)

	return true, nil
}

func (wsa *WheelStorageAzure) StoreWheelFile(fileContents []byte, wheelName string, storedWheelPath string) error {
	slog.Debug("storing wheel in Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"wheelName", wheelName,
		"size", len(fileContents))

	_, err := wsa.ServiceClient.UploadBuffer(
		wsa.Context,
		wsa.ContainerName,
		storedWheelPath,
		fileContents,
		&azblob.UploadBufferOptions{},
	)

	if err != nil {
		slog.Error("failed to write wheel to Azure Blob Storage",
			"container", wsa.ContainerName,
			"path", storedWheelPath,
			"error", err)
		return err
	}

	slog.Info("successfully stored wheel in Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath)
	return nil
}

func (wsa *WheelStorageAzure) RetrieveWheel(localWheelPath string, wheelName string, storedWheelPath string) (*string, error) {
	slog.Debug("retrieving wheel from Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"wheelName", wheelName,
		"localPath", localWheelPath)

	localFile, err := os.Create(localWheelPath)
	if err != nil {
		slog.Error("unable to create local file",
			"path", localWheelPath,
			"error", err)
		return nil, fmt.Errorf("unable to create file: %v", err)
	}
	defer localFile.Close()

	_, err = wsa.ServiceClient.DownloadFile(
		wsa.Context,
		wsa.ContainerName,
		storedWheelPath,
		localFile,
		&azblob.DownloadFileOptions{},
	)
	if err != nil {
		slog.Error("unable to read data from Azure Blob Storage",
			"container", wsa.ContainerName,
			"path", storedWheelPath,
			"error", err)
		return nil, fmt.Errorf("unable to read data from blob: %v", err)
	}

	fileName, err := filepath.Abs(localFile.Name())
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path for file: %v", err)
	}

	slog.Info("successfully retrieved wheel from Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"localPath", fileName)
	return &fileName, nil
}

func (wsa *WheelStorageAzure) DeleteStoredWheel(wheelName string, storedWheelPath string) error {
	slog.Debug("deleting stored wheel from Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath,
		"wheelName", wheelName)

	_, err := wsa.ServiceClient.DeleteBlob(
		wsa.Context,
		wsa.ContainerName,
		storedWheelPath,
		&azblob.DeleteBlobOptions{},
	)

	if err != nil {
		slog.Error("unable to delete wheel from Azure Blob Storage",
			"container", wsa.ContainerName,
			"path", storedWheelPath,
			"error", err)
		return fmt.Errorf("unable to delete file '%v' from container: %v", storedWheelPath, err)
	}

	slog.Info("successfully deleted wheel from Azure Blob Storage",
		"container", wsa.ContainerName,
		"path", storedWheelPath)
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

type WheelStorageGcp struct {
	Client  *storage.Client
	Bucket  *storage.BucketHandle
	Context context.Context
}

func (wsg *WheelStorageGcp) WheelExists(wheelName string, storedWheelPath string) (bool, error) {
	obj := wsg.Bucket.Object(storedWheelPath)
	_, err := obj.Attrs(wsg.Context)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, fmt.Errorf("unable to get object attributes: %v", err)
	}
	return true, nil
}

func (wsg *WheelStorageGcp) StoreWheelFile(fileContents []byte, wheelName string, storedWheelPath string) error {
	obj := wsg.Bucket.Object(storedWheelPath)
	writer := obj.NewWriter(context.Background())
	defer writer.Close()

	if _, err := writer.Write(fileContents); err != nil {
		slog.Error("failed to write wheel to bucket", "path", storedWheelPath, "error", err)
		return err
	}
	return nil
}

func (wsg *WheelStorageGcp) RetrieveWheel(localWheelPath string, wheelName string, storedWheelPath string) (*string, error) {
	obj := wsg.Bucket.Object(storedWheelPath)
	rc, err := obj.NewReader(wsg.Context)
	if err != nil {
		return nil, fmt.Errorf("unable to read data from bucket: %v", err)
	}
	defer rc.Close()

	file, err := os.Create(localWheelPath)
	if err != nil {
		return nil, fmt.Errorf("unable to create file: %v", err)
	}
	defer file.Close()

	if _, err = io.Copy(file, rc); err != nil {
		return nil, fmt.Errorf("unable to write data to file: %v", err)
	}
	fileName, err := filepath.Abs(file.Name())
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path for file: %v", err)
	}
	return &fileName, nil
}

func (wsg *WheelStorageGcp) DeleteStoredWheel(wheelName string, storedWheelPath string) error {
	obj := wsg.Bucket.Object(storedWheelPath)
	err := obj.Delete(wsg.Context)

	if err != nil {
		return fmt.Errorf("unable to delete file '%v' from bucket: %v", storedWheelPath, err)
	}
	return nil
}

func GetGoogleStorageClient() (context.Context, *storage.Client, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create google storage client: %v", err)
	}
	return ctx, client, nil
}

package storage

type MockWheelStorage struct {
}

func (t *MockWheelStorage) StoreWheelFile(fileContents []byte, wheelName string, storedWheelPath string) error {
	return nil
}

func (t *MockWheelStorage) RetrieveWheel(localWheelPath string, wheelName string, storedWheelPath string) (*string, error) {
	return nil, nil
}

func (t *MockWheelStorage) DeleteStoredWheel(wheelName string, storedWheelPath string) error {
	return nil
}

func (t *MockWheelStorage) WheelExists(wheelName string, storedWheelPath string) (bool, error) {
	return false, nil
}

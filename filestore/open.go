package filestore

import (
	"context"
	"fmt"

	"lodge-desk/config"
)

// Store saves a file and returns the URL it can be fetched from.
type Store interface {
	Store(ctx context.Context, data []byte, name string) (string, error)
}

func Open(cfg config.Config) (Store, error) {
	switch cfg.FileStoreDriver {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.UploadBaseURL), nil
	case "remote":
		if cfg.FileStoreURL == "" {
			return nil, fmt.Errorf("FILESTORE_URL is required for the remote file store")
		}
		return NewRemote(cfg.FileStoreURL, cfg.FileStoreToken), nil
	}
	return nil, fmt.Errorf("unknown FILESTORE_DRIVER %q", cfg.FileStoreDriver)
}

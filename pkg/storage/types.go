package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/matst80/escape-finder/pkg/types"
)

var ErrStatus = errors.New("unexpected response status")

// Source performs the single underlying read of the dataset.
type Source interface {
	Fetch(ctx context.Context) (*types.Dataset, error)
	String() string
}

type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

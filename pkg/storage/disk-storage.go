package storage

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/matst80/escape-finder/pkg/types"
)

const DatasetFile = "rooms.json"

// DiskSource reads the dataset from a file below the storage root. Names
// ending in .gz are gunzipped.
type DiskSource struct {
	*DiskStorage
	Name string
}

func NewDiskSource(rootFolder, name string) *DiskSource {
	if name == "" {
		name = DatasetFile
	}
	return &DiskSource{
		DiskStorage: NewDiskStorage(rootFolder),
		Name:        name,
	}
}

func (s *DiskSource) String() string {
	name, _ := s.GetFileName(s.Name)
	return name
}

func (s *DiskSource) Fetch(ctx context.Context) (*types.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := &types.Dataset{}
	var err error
	if strings.HasSuffix(s.Name, ".gz") {
		err = s.LoadGzippedJson(ds, s.Name)
	} else {
		err = s.LoadJson(ds, s.Name)
	}
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (p *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := p.GetFileName(filename)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	enc := json.NewEncoder(zipWriter)

	if err = enc.Encode(data); err != nil {
		_ = zipWriter.Close()
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = zipWriter.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFileName)
		return err
	}
	if err = file.Close(); err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	return decodeJson(zipReader, data)
}

func (p *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := p.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	err = enc.Encode(data)
	file.Close()
	if err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	return decodeJson(file, data)
}

func decodeJson(r io.Reader, data any) error {
	err := json.NewDecoder(r).Decode(data)
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

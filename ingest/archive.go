package ingest

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"

	"github.com/pivolan/genbi/domain/models"
)

// IsArchive reports whether path has an extension UnpackArchive understands.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".gz", ".lz4":
		return true
	}
	return false
}

// UnpackArchive extracts a .zip, .gz or .lz4 file into destDir and returns the path of
// the extracted file. Zip archives yield their largest member. Other files are returned
// unchanged.
func UnpackArchive(path, destDir string) (string, error) {
	if !IsArchive(path) {
		return path, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return unpackZip(path, destDir)
	case ".gz":
		return unpackStream(path, destDir, func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) })
	case ".lz4":
		return unpackStream(path, destDir, func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil })
	}
	return path, nil
}

func unpackZip(path, destDir string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var largest *zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}
	if largest == nil {
		return "", fmt.Errorf("archive %s has no files", filepath.Base(path))
	}

	rc, err := largest.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return extract(rc, filepath.Join(destDir, filepath.Base(largest.Name)))
}

func unpackStream(path, destDir string, open func(io.Reader) (io.Reader, error)) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r, err := open(file)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return extract(r, filepath.Join(destDir, name))
}

// maxUnpackedSize bounds extraction so an archive cannot expand past the upload limit.
var maxUnpackedSize int64 = MaxFileSize

func extract(r io.Reader, destPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	n, err := io.CopyN(out, r, maxUnpackedSize+1)
	if err != nil && !errors.Is(err, io.EOF) {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if n > maxUnpackedSize {
		os.Remove(destPath)
		return "", models.ErrValidation("Unpacked file exceeds the limit of %d bytes", maxUnpackedSize)
	}
	return destPath, nil
}

// OpenFile opens a local file for upload. The dataset name defaults to the file name
// without its extension. Callers close the returned *os.File when the upload ends.
func OpenFile(path string) (*os.File, File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, File{}, err
	}
	st, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, File{}, err
	}
	base := filepath.Base(path)
	return fh, File{
		Name:     strings.TrimSuffix(base, filepath.Ext(base)),
		FileType: FileType(base),
		Size:     st.Size(),
		Source:   fh,
	}, nil
}

// FileType is the media type for a file name, text/csv when the extension is unknown.
func FileType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".csv" {
		return "text/csv"
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return "text/csv"
	}
	return strings.TrimSpace(strings.Split(t, ";")[0])
}

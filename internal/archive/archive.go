package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// EntrySeparator joins an archive path and an entry name in a locator,
// e.g. "photos.zip!/2024/001.jpg".
const EntrySeparator = "!/"

// IsArchive reports whether path has a supported archive extension.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

// Locator builds the locator string for an entry inside an archive.
func Locator(archivePath, entry string) string {
	return archivePath + EntrySeparator + entry
}

// SplitLocator splits a locator produced by Locator. ok is false when s
// does not point inside an archive.
func SplitLocator(s string) (archivePath, entry string, ok bool) {
	i := strings.Index(s, EntrySeparator)
	if i <= 0 {
		return "", "", false
	}
	archivePath, entry = s[:i], s[i+len(EntrySeparator):]
	if !IsArchive(archivePath) || entry == "" {
		return "", "", false
	}
	return archivePath, entry, true
}

// List returns the names of all non-directory entries accepted by keep,
// in archive order.
func List(archivePath string, keep func(name string) bool) ([]string, error) {
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return listZip(archivePath, keep)
	case ".rar":
		return listRar(archivePath, keep)
	case ".7z":
		return list7z(archivePath, keep)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath))
	}
}

// ReadEntry returns the bytes of a single entry.
func ReadEntry(archivePath, entry string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return readZip(archivePath, entry)
	case ".rar":
		return readRar(archivePath, entry)
	case ".7z":
		return read7z(archivePath, entry)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", filepath.Ext(archivePath))
	}
}

func listZip(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func readZip(archivePath, entry string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entry, archivePath)
}

func listRar(archivePath string, keep func(string) bool) ([]string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var names []string
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && keep(header.Name) {
			names = append(names, header.Name)
		}
	}
	return names, nil
}

func readRar(archivePath, entry string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entry {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entry, archivePath)
}

func list7z(archivePath string, keep func(string) bool) ([]string, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var names []string
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && keep(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func read7z(archivePath, entry string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name != entry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("entry %s not found in %s", entry, archivePath)
}

package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InputFile validates that given path exists and is a file
func InputFile(filePath string) error {
	if filePath == "" {
		return fmt.Errorf("no input file given")
	}
	if !IsFile(filePath) {
		return fmt.Errorf("%s does not exists or is no file", filePath)
	}
	return nil
}

// OutputDirectory makes sure given directory exists, creating it if needed
func OutputDirectory(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("no output directory given")
	}
	if IsFile(dirPath) {
		return fmt.Errorf("%s is a file", dirPath)
	}
	if !IsDirectory(dirPath) {
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return err
		}
	}
	return nil
}

// IsMBTiles reports whether output should be written as an MBTiles file
func IsMBTiles(outputPath string) bool {
	return strings.EqualFold(filepath.Ext(outputPath), ".mbtiles")
}

// TileOutput validates a tile output, which is either an MBTiles file
// (whose directory has to exist) or a directory
func TileOutput(outputPath string) error {
	if !IsMBTiles(outputPath) {
		return OutputDirectory(outputPath)
	}

	dir := filepath.Dir(outputPath)
	if !IsDirectory(dir) {
		return fmt.Errorf("%s does not exists or is no directory", dir)
	}
	if IsDirectory(outputPath) {
		return fmt.Errorf("%s is a directory", outputPath)
	}
	return nil
}

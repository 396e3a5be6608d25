package dem

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Read digital elevation model from given path. Paths ending in .gz are
// decompressed on the fly.
func Read(path string) (EsriASCIIRaster, error) {
	file, err := os.Open(path)
	if err != nil {
		return EsriASCIIRaster{}, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return EsriASCIIRaster{}, err
		}
		defer gz.Close()
		r = gz
	}

	return ParseEsriASCIIRaster(r)
}

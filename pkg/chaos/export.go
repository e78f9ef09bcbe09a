// pkg/chaos/export.go
package chaos

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// SectionFile is the serialized form of a study's samples.
type SectionFile struct {
	Perimeter float64    `msgpack:"perimeter"`
	Samples   [][]Sample `msgpack:"samples"`
}

// Export writes every ball's samples to w as msgpack.
func (s *Study) Export(w io.Writer) error {
	file := SectionFile{
		Perimeter: s.Perimeter(),
		Samples:   s.samples,
	}
	if err := msgpack.NewEncoder(w).Encode(&file); err != nil {
		return fmt.Errorf("failed to encode samples: %w", err)
	}
	return nil
}

// ReadSamples decodes a file written by Export.
func ReadSamples(r io.Reader) (*SectionFile, error) {
	var file SectionFile
	if err := msgpack.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode samples: %w", err)
	}
	return &file, nil
}

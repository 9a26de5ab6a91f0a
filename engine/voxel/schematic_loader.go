package voxel

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/memmaker/cubemesh/engine/util"
	"github.com/pkg/errors"
)

/*
	TAG_Compound("Schematic", {
	    "Width":  TAG_Short(),   // x
	    "Height": TAG_Short(),   // y
	    "Length": TAG_Short(),   // z
	    "Blocks": TAG_Byte_Array(Width*Height*Length),
	})

Blocks is ordered (y*Length + z)*Width + x. Id 0 is air.
*/
type Schematic struct {
	Width  int16  `nbt:"Width"`
	Height int16  `nbt:"Height"`
	Length int16  `nbt:"Length"`
	Blocks []byte `nbt:"Blocks"`
}

func schematicIndex(s *Schematic, x, y, z int32) int {
	return (int(y)*int(s.Length)+int(z))*int(s.Width) + int(x)
}

func LoadSchematicFile(filename string) (*Map, error) {
	fileReader, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open schematic")
	}
	defer fileReader.Close()
	m, err := LoadSchematic(fileReader)
	if err != nil {
		return nil, errors.Wrapf(err, "load schematic %s", filename)
	}
	return m, nil
}

// LoadSchematic decodes a gzip compressed schematic into a dense map.
func LoadSchematic(r io.Reader) (*Map, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer gzipReader.Close()

	data, err := io.ReadAll(gzipReader)
	if err != nil {
		return nil, errors.Wrap(err, "read schematic")
	}
	var value Schematic
	if err = nbt.Unmarshal(data, &value); err != nil {
		return nil, errors.Wrap(err, "decode schematic nbt")
	}
	if value.Width < 0 || value.Height < 0 || value.Length < 0 {
		return nil, errors.Errorf("invalid schematic shape %dx%dx%d", value.Width, value.Height, value.Length)
	}
	size := Int3{int32(value.Width), int32(value.Height), int32(value.Length)}
	if err = CheckMapSize(size); err != nil {
		return nil, err
	}
	if len(value.Blocks) != size.Volume() {
		return nil, errors.Errorf("schematic shape %dx%dx%d needs %d blocks, got %d", size.X, size.Y, size.Z, size.Volume(), len(value.Blocks))
	}

	m := NewMap(size)
	for x := int32(0); x < size.X; x++ {
		for y := int32(0); y < size.Y; y++ {
			for z := int32(0); z < size.Z; z++ {
				m.SetBlock(x, y, z, value.Blocks[schematicIndex(&value, x, y, z)])
			}
		}
	}
	util.LogIOInfo("loaded schematic %dx%dx%d with %d solid blocks", size.X, size.Y, size.Z, m.SolidCount())
	return m, nil
}

// WriteSchematic stores the map in the same layout LoadSchematic reads.
func WriteSchematic(w io.Writer, m *Map) error {
	size := m.Size()
	if size.X > 1<<15-1 || size.Y > 1<<15-1 || size.Z > 1<<15-1 {
		return errors.Errorf("map %v too large for a schematic", size)
	}
	value := Schematic{
		Width:  int16(size.X),
		Height: int16(size.Y),
		Length: int16(size.Z),
		Blocks: make([]byte, size.Volume()),
	}
	for x := int32(0); x < size.X; x++ {
		for y := int32(0); y < size.Y; y++ {
			for z := int32(0); z < size.Z; z++ {
				value.Blocks[schematicIndex(&value, x, y, z)] = m.GetBlock(x, y, z)
			}
		}
	}

	var encoded bytes.Buffer
	if err := nbt.NewEncoder(&encoded).Encode(value, "Schematic"); err != nil {
		return errors.Wrap(err, "encode schematic nbt")
	}
	gzipWriter := gzip.NewWriter(w)
	if _, err := gzipWriter.Write(encoded.Bytes()); err != nil {
		return errors.Wrap(err, "write schematic")
	}
	return errors.Wrap(gzipWriter.Close(), "close schematic writer")
}

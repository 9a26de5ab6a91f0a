package voxel

import (
	"compress/gzip"
	"encoding/binary"
	"io"
	"os"

	"github.com/memmaker/cubemesh/engine/util"
	"github.com/pkg/errors"
)

const EMPTY byte = 0

// MaxMapVolume bounds the cell count of a dense map (256 MiB of block ids).
const MaxMapVolume = 1 << 28

// Map is a dense occupancy volume with one block id per cell. Id 0 is air.
type Map struct {
	blocks []byte
	width  int32
	height int32
	depth  int32
}

// CheckMapSize rejects negative extents and volumes above MaxMapVolume.
func CheckMapSize(size Int3) error {
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return errors.Errorf("invalid map dimensions %d %d %d", size.X, size.Y, size.Z)
	}
	if volume := size.Volume(); volume > MaxMapVolume {
		return errors.Errorf("map dimensions %d %d %d exceed %d cells", size.X, size.Y, size.Z, MaxMapVolume)
	}
	return nil
}

// NewMap panics when CheckMapSize rejects size.
func NewMap(size Int3) *Map {
	if err := CheckMapSize(size); err != nil {
		panic(err)
	}
	return &Map{
		blocks: make([]byte, size.Volume()),
		width:  max(size.X, 0),
		height: max(size.Y, 0),
		depth:  max(size.Z, 0),
	}
}

// NewSolidMap returns a map where every cell holds block id 1.
func NewSolidMap(size Int3) *Map {
	m := NewMap(size)
	for i := range m.blocks {
		m.blocks[i] = 1
	}
	return m
}

func (m *Map) blockIndex(x, y, z int32) int {
	return int(x) + int(y)*int(m.width) + int(z)*int(m.width)*int(m.height)
}

func (m *Map) Size() Int3 {
	return Int3{m.width, m.height, m.depth}
}

func (m *Map) Contains(x, y, z int32) bool {
	return contains(m.Size(), x, y, z)
}

func (m *Map) GetBlock(x, y, z int32) byte {
	if !m.Contains(x, y, z) {
		return EMPTY
	}
	return m.blocks[m.blockIndex(x, y, z)]
}

// SetBlock ignores cells outside the map.
func (m *Map) SetBlock(x, y, z int32, id byte) {
	if !m.Contains(x, y, z) {
		return
	}
	m.blocks[m.blockIndex(x, y, z)] = id
}

func (m *Map) IsSolid(x, y, z int32) bool {
	return m.GetBlock(x, y, z) != EMPTY
}

func (m *Map) SolidCount() int {
	count := 0
	for _, id := range m.blocks {
		if id != EMPTY {
			count++
		}
	}
	return count
}

// SaveTo writes the map gzip compressed: width, height, depth as
// little-endian int32, then one byte per cell in x, y, z order.
func (m *Map) SaveTo(w io.Writer) error {
	gzipWriter := gzip.NewWriter(w)
	for _, dim := range []int32{m.width, m.height, m.depth} {
		if err := binary.Write(gzipWriter, binary.LittleEndian, dim); err != nil {
			return errors.Wrap(err, "write map dimensions")
		}
	}
	if _, err := gzipWriter.Write(m.blocks); err != nil {
		return errors.Wrap(err, "write map blocks")
	}
	if err := gzipWriter.Close(); err != nil {
		return errors.Wrap(err, "close map writer")
	}
	util.LogIOInfo("saved map with dimensions %d %d %d", m.width, m.height, m.depth)
	return nil
}

func LoadMap(r io.Reader) (*Map, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open map stream")
	}
	defer gzipReader.Close()

	var dims [3]int32
	if err = binary.Read(gzipReader, binary.LittleEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "read map dimensions")
	}
	size := Int3{dims[0], dims[1], dims[2]}
	if err = CheckMapSize(size); err != nil {
		return nil, err
	}
	m := NewMap(size)
	if _, err = io.ReadFull(gzipReader, m.blocks); err != nil {
		return nil, errors.Wrapf(err, "read %d map blocks", len(m.blocks))
	}
	util.LogIOInfo("loaded map with dimensions %d %d %d", m.width, m.height, m.depth)
	return m, nil
}

func (m *Map) SaveToDisk(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "create map file")
	}
	if err = m.SaveTo(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "save map %s", filename)
	}
	return errors.Wrapf(file.Close(), "close map %s", filename)
}

func LoadMapFromDisk(filename string) (*Map, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open map file")
	}
	defer file.Close()
	m, err := LoadMap(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load map %s", filename)
	}
	return m, nil
}

package voxel

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Tnze/go-mc/nbt"
)

func sampleMap() *Map {
	m := NewMap(Int3{4, 3, 2})
	m.SetBlock(0, 0, 0, 1)
	m.SetBlock(3, 2, 1, 5)
	m.SetBlock(1, 1, 0, 9)
	return m
}

func TestMapSaveLoad(t *testing.T) {
	m := sampleMap()
	var buf bytes.Buffer
	if err := m.SaveTo(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadMap(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Error("loaded map differs from saved map")
	}
}

func TestLoadMapTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleMap().SaveTo(&buf); err != nil {
		t.Fatal(err)
	}
	raw, err := gzip.NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	var plain bytes.Buffer
	if _, err = plain.ReadFrom(raw); err != nil {
		t.Fatal(err)
	}
	var truncated bytes.Buffer
	w := gzip.NewWriter(&truncated)
	w.Write(plain.Bytes()[:plain.Len()-3])
	w.Close()
	if _, err = LoadMap(&truncated); err == nil {
		t.Fatal("truncated map accepted")
	}
}

func TestSchematicRoundTrip(t *testing.T) {
	m := sampleMap()
	var buf bytes.Buffer
	if err := WriteSchematic(&buf, m); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadSchematic(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Error("schematic round trip changed the map")
	}
}

func TestSchematicBlockOrder(t *testing.T) {
	value := Schematic{Width: 2, Height: 1, Length: 2, Blocks: []byte{0, 1, 0, 3}}
	var encoded bytes.Buffer
	if err := nbt.NewEncoder(&encoded).Encode(value, "Schematic"); err != nil {
		t.Fatal(err)
	}
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	w.Write(encoded.Bytes())
	w.Close()

	m, err := LoadSchematic(&compressed)
	if err != nil {
		t.Fatal(err)
	}
	if m.GetBlock(1, 0, 0) != 1 || m.GetBlock(1, 0, 1) != 3 || m.SolidCount() != 2 {
		t.Errorf("blocks landed in the wrong cells")
	}
}

func TestSchematicShapeMismatch(t *testing.T) {
	value := Schematic{Width: 2, Height: 2, Length: 2, Blocks: []byte{1, 1, 1}}
	var encoded bytes.Buffer
	if err := nbt.NewEncoder(&encoded).Encode(value, "Schematic"); err != nil {
		t.Fatal(err)
	}
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	w.Write(encoded.Bytes())
	w.Close()
	if _, err := LoadSchematic(&compressed); err == nil {
		t.Fatal("schematic with missing blocks accepted")
	}
}

func TestLoadSchematicNotGzip(t *testing.T) {
	if _, err := LoadSchematic(bytes.NewReader([]byte("not a schematic"))); err == nil {
		t.Fatal("plain text accepted")
	}
}

func gzipHeader(t *testing.T, dims [3]int32) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return &buf
}

func TestLoadMapRejectsOversizedHeader(t *testing.T) {
	headers := map[string][3]int32{
		"wrapping":  {1 << 30, 1 << 30, 1 << 30},
		"too large": {1 << 10, 1 << 10, 1 << 9},
		"negative":  {-1, 4, 4},
	}
	for name, dims := range headers {
		if m, err := LoadMap(gzipHeader(t, dims)); err == nil {
			t.Errorf("%s: accepted dimensions %v as %v", name, dims, m.Size())
		}
	}
}

func TestVolumeSaturates(t *testing.T) {
	if got := (Int3{math.MaxInt32, math.MaxInt32, math.MaxInt32}).Volume(); got != math.MaxInt {
		t.Errorf("volume %d, want saturation", got)
	}
	if got := (Int3{1 << 20, 1 << 20, 1 << 20}).Volume(); got != 1<<60 {
		t.Errorf("volume %d, want 1<<60", got)
	}
	if got := (Int3{4, 5, 6}).Volume(); got != 120 {
		t.Errorf("volume %d, want 120", got)
	}
	if err := CheckMapSize(Int3{1 << 30, 1 << 30, 1 << 30}); err == nil {
		t.Error("wrapping size accepted")
	}
}

func TestNewMapPanicsOnOversizedMap(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewMap(Int3{1 << 30, 1 << 30, 1 << 30})
}

func TestMapDiskRoundTrip(t *testing.T) {
	m := sampleMap()
	filename := filepath.Join(t.TempDir(), "map.bin")
	if err := m.SaveToDisk(filename); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadMapFromDisk(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m, loaded) {
		t.Error("loaded map differs from saved map")
	}
	if _, err = LoadMapFromDisk(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Error("missing file accepted")
	}
}

package voxel

import (
	"reflect"
	"strings"
	"testing"
)

func TestAssembleParallelMatchesSequential(t *testing.T) {
	grids := map[string]CubeGrid{
		"random": randomGrid(Int3{7, 5, 6}, 11),
		"shell":  BuildCubeGrid(NewSolidMap(Int3{9, 9, 9}), nil),
		"single": randomGrid(Int3{1, 3, 3}, 5),
		"empty":  NewCubeGrid(Int3{}),
	}
	for name, grid := range grids {
		want, err := Assemble(grid)
		if err != nil {
			t.Fatal(err)
		}
		for _, workers := range []int{0, 1, 2, 8} {
			got, err := AssembleParallel(grid, workers)
			if err != nil {
				t.Fatalf("%s/%d: %v", name, workers, err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("%s: %d workers produce a different mesh", name, workers)
			}
		}
	}
}

func TestAssembleParallelError(t *testing.T) {
	grid := randomGrid(Int3{4, 2, 2}, 1)
	broken := BuildCubeFaces(Left)
	broken.Normals = broken.Normals[:1]
	grid[2][1][0] = broken
	_, err := AssembleParallel(grid, 4)
	if err == nil || !strings.Contains(err.Error(), "cell (2,1,0)") {
		t.Fatalf("expected error naming the cell, got %v", err)
	}
}

func BenchmarkAssembleParallel(b *testing.B) {
	grid := BuildCubeGrid(NewSolidMap(Int3{17, 17, 17}), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AssembleParallel(grid, 4)
	}
}

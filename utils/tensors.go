package utils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"
)

// VStack concatenates 2D tensors along the row axis, skipping empty ones.
func VStack(tensors []*tensor.Dense) (*tensor.Dense, error) {
	var nonEmptyTensors []*tensor.Dense
	for _, t := range tensors {
		shape := t.Shape()
		if shape[0] > 0 {
			nonEmptyTensors = append(nonEmptyTensors, t)
		}
	}

	if len(nonEmptyTensors) == 0 {
		return tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(0, 1)), nil
	}

	result, err := nonEmptyTensors[0].Concat(0, nonEmptyTensors[1:]...)
	if err != nil {
		return nil, fmt.Errorf("error concatenating tensors: %v", err)
	}

	return result, nil
}

// TensorRows copies a 2D float32 tensor into a row-major slice of rows.
func TensorRows(t *tensor.Dense) ([][]float32, error) {
	shape := t.Shape()
	if len(shape) != 2 {
		return nil, fmt.Errorf("expected a 2D tensor, got shape %v", shape)
	}
	numRows, numCols := shape[0], shape[1]

	data := t.Float32s()
	rows := make([][]float32, 0, numRows)
	for i := 0; i < numRows; i++ {
		row := make([]float32, numCols)
		copy(row, data[i*numCols:(i+1)*numCols])
		rows = append(rows, row)
	}

	return rows, nil
}

// RowsToTensor packs equal-length float32 rows into a 2D tensor.
func RowsToTensor(rows [][]float32) (*tensor.Dense, error) {
	if len(rows) == 0 {
		return tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(0, 1)), nil
	}
	numCols := len(rows[0])

	backing := make([]float32, 0, len(rows)*numCols)
	for idx, row := range rows {
		if len(row) != numCols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", idx, len(row), numCols)
		}
		backing = append(backing, row...)
	}

	result := tensor.New(
		tensor.Of(tensor.Float32),
		tensor.WithShape(len(rows), numCols),
		tensor.WithBacking(backing),
	)
	return result, nil
}

// TensorsAlmostEqual reports whether two float32 tensors have the same
// shape and element-wise match within tol.
func TensorsAlmostEqual(a, b *tensor.Dense, tol float64) bool {
	if !a.Shape().Eq(b.Shape()) {
		return false
	}
	return floats.EqualApprox(toFloat64s(a.Float32s()), toFloat64s(b.Float32s()), tol)
}

func toFloat64s(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}

package mathutil

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Vec is a float64 vector.
type Vec = []float64

// ShapeError reports a matrix that does not have the expected shape.
// Row is -1 when the row count is wrong, otherwise the offending row index
// whose length Got differs from Want.
type ShapeError struct {
	Row  int
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("got %d rows, want %d", e.Got, e.Want)
	}
	return fmt.Sprintf("row %d has %d columns, want %d", e.Row, e.Got, e.Want)
}

// NewVecFill creates a vector of length n filled with val.
func NewVecFill(n int, val float64) Vec {
	v := make(Vec, n)
	for i := range v {
		v[i] = val
	}
	return v
}

// DenseFromRows copies a row-major [][]float64 into a rows x cols matrix,
// checking that every row has exactly cols entries.
func DenseFromRows(data [][]float64, rows, cols int) (*mat.Dense, error) {
	if len(data) != rows {
		return nil, &ShapeError{Row: -1, Want: rows, Got: len(data)}
	}
	flat := make([]float64, 0, rows*cols)
	for i, row := range data {
		if len(row) != cols {
			return nil, &ShapeError{Row: i, Want: cols, Got: len(row)}
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(rows, cols, flat), nil
}

// AppendRows returns a new matrix holding the rows of m followed by rows.
// Every appended row must have the column count of m.
func AppendRows(m *mat.Dense, rows ...[]float64) *mat.Dense {
	r, c := m.Dims()
	flat := make([]float64, 0, (r+len(rows))*c)
	for i := 0; i < r; i++ {
		flat = append(flat, m.RawRowView(i)...)
	}
	for _, row := range rows {
		if len(row) != c {
			panic(fmt.Sprintf("mathutil: appended row has %d columns, want %d", len(row), c))
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(r+len(rows), c, flat)
}

// DeleteRow returns a new matrix equal to m without row i. m must have at
// least two rows.
func DeleteRow(m *mat.Dense, i int) *mat.Dense {
	r, c := m.Dims()
	flat := make([]float64, 0, (r-1)*c)
	for j := 0; j < r; j++ {
		if j != i {
			flat = append(flat, m.RawRowView(j)...)
		}
	}
	return mat.NewDense(r-1, c, flat)
}

// DeleteElem returns a copy of v without element i.
func DeleteElem(v Vec, i int) Vec {
	out := make(Vec, 0, len(v)-1)
	out = append(out, v[:i]...)
	return append(out, v[i+1:]...)
}

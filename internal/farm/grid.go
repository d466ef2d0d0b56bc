package farm

// InBounds reports whether row, col names a cell on the grid.
func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Cols
}

// Adjacent reports whether a and b are orthogonal neighbours.
func Adjacent(a, b GridPoint) bool {
	dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
	return (dr == 1 && dc == 0) || (dr == 0 && dc == 1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

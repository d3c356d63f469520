// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package moonboard

import "fmt"

// Position is a hold location on the board. Columns run A to K from the
// left, rows run 1 to 18 from the bottom.
type Position struct {
	Column int // 0-based, 0 is column A
	Row    int // 0-based, 0 is row 1
}

// String returns the board name of the position, e.g. "A1" or "K18"
func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'A'+p.Column, p.Row+1)
}

// HoldPosition returns the board position of a hold index. Holds are wired
// column by column in a snake: column A bottom to top, column B top to
// bottom, and so on.
func HoldPosition(index int) (Position, bool) {
	if index < 0 || index >= DefaultHoldCount {
		return Position{}, false
	}

	column := index / DefaultRows
	row := index % DefaultRows
	if column%2 == 1 {
		row = DefaultRows - 1 - row
	}
	return Position{Column: column, Row: row}, true
}

// HoldIndex is the inverse of HoldPosition
func HoldIndex(p Position) (int, bool) {
	if p.Column < 0 || p.Column >= DefaultColumns || p.Row < 0 || p.Row >= DefaultRows {
		return 0, false
	}

	row := p.Row
	if p.Column%2 == 1 {
		row = DefaultRows - 1 - row
	}
	return p.Column*DefaultRows + row, true
}

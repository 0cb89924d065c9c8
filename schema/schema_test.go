package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{1, 1},
		{9, 1},
		{10, 2},
		{99, 2},
		{100, 3},
		{1000, 4},
		{363442, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Digits(tt.in), "Digits(%d)", tt.in)
	}
}

func TestColumnWidths_Observe(t *testing.T) {
	cw := NewColumnWidths()
	assert.Equal(t, ColumnWidths{ToDigits: 1, FromDigits: 1, LineDigits: 1}, cw)

	cw.Observe(LineRecord{FromChange: 10, FromOwner: "amy", ToChange: 30, ToOwner: "cleo", LineNumber: 1, Status: PresentStatus})
	cw.Observe(LineRecord{FromChange: 10, FromOwner: "amy", ToChange: 200, ToOwner: "bob", Status: DeletedStatus})

	assert.Equal(t, 3, cw.ToDigits)
	assert.Equal(t, 2, cw.FromDigits)
	assert.Equal(t, 4, cw.ToOwnerLen)
	assert.Equal(t, 3, cw.FromOwnerLen)
	assert.Equal(t, 1, cw.LineDigits)

	// Smaller values never shrink a column.
	cw.Observe(LineRecord{FromChange: 1, FromOwner: "x", ToChange: 1, ToOwner: "y", LineNumber: 12, Status: PresentStatus})
	assert.Equal(t, 3, cw.ToDigits)
	assert.Equal(t, 4, cw.ToOwnerLen)
	assert.Equal(t, 2, cw.LineDigits)
}

func TestColumnWidths_OwnerLengthCountsRunes(t *testing.T) {
	cw := NewColumnWidths()
	cw.Observe(LineRecord{FromChange: 1, FromOwner: "zoë", ToChange: 1, ToOwner: "zoë", Status: DeletedStatus})
	assert.Equal(t, 3, cw.FromOwnerLen)
	assert.Equal(t, 3, cw.ToOwnerLen)
}

func TestColumnWidths_ChangeColumnWidth(t *testing.T) {
	cw := ColumnWidths{ToDigits: 2, FromDigits: 2, ToOwnerLen: 4, FromOwnerLen: 3, LineDigits: 1}
	// 2 + 4 + 1 + 2 + 3 + 1 + 5
	assert.Equal(t, 18, cw.ChangeColumnWidth())
	assert.Len(t, "10@amy ... 20@cleo", cw.ChangeColumnWidth())
}

func TestLineRecord_IsPresent(t *testing.T) {
	assert.True(t, LineRecord{Status: PresentStatus}.IsPresent())
	assert.False(t, LineRecord{Status: DeletedStatus}.IsPresent())
}

package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logitrack/internal/core/apperror"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(RawFilter{
		BaseID:          "1",
		EquipmentTypeID: " 4 ",
		StartDate:       "2024-01-01",
		EndDate:         "2024-02-28",
	})
	require.NoError(t, err)

	base, ok := f.BaseID()
	assert.True(t, ok)
	assert.Equal(t, int64(1), base)

	eq, ok := f.EquipmentTypeID()
	assert.True(t, ok)
	assert.Equal(t, int64(4), eq)

	start, ok := f.StartDate()
	assert.True(t, ok)
	assert.Equal(t, "2024-01-01", start.Format(DateLayout))

	end, ok := f.EndDate()
	assert.True(t, ok)
	assert.Equal(t, "2024-02-28", end.Format(DateLayout))
}

func TestParseFilter_Empty(t *testing.T) {
	f, err := ParseFilter(RawFilter{})
	require.NoError(t, err)
	assert.Equal(t, Filter{}, f)
	assert.Nil(t, f.BasePtr())
}

func TestParseFilter_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawFilter
		field string
	}{
		{name: "bad start date", raw: RawFilter{StartDate: "2024-13-01"}, field: "startDate"},
		{name: "us date format", raw: RawFilter{EndDate: "02/28/2024"}, field: "endDate"},
		{name: "timestamp", raw: RawFilter{StartDate: "2024-01-01T00:00:00Z"}, field: "startDate"},
		{name: "non numeric base", raw: RawFilter{BaseID: "fort"}, field: "baseId"},
		{name: "negative equipment", raw: RawFilter{EquipmentTypeID: "-3"}, field: "equipmentTypeId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(tt.raw)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}
}

func TestParseFilter_InvertedRange(t *testing.T) {
	_, err := ParseFilter(RawFilter{StartDate: "2024-03-01", EndDate: "2024-02-01"})
	assert.True(t, apperror.IsValidation(err))

	_, err = ParseFilter(RawFilter{StartDate: "2024-03-01", EndDate: "2024-03-01"})
	assert.NoError(t, err)
}

func TestFilter_IsAValue(t *testing.T) {
	original := Filter{}.WithBase(1)
	changed := original.WithBase(2).WithEquipmentType(3)

	base, _ := original.BaseID()
	assert.Equal(t, int64(1), base)
	_, hasEq := original.EquipmentTypeID()
	assert.False(t, hasEq)

	p := changed.BasePtr()
	*p = 99
	base, _ = changed.BaseID()
	assert.Equal(t, int64(2), base)

	assert.Nil(t, changed.WithBasePtr(nil).BasePtr())
}

func TestNewPage(t *testing.T) {
	p, err := NewPage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: DefaultLimit}, p)

	p, err = NewPage(500, 5)
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: MaxLimit, Offset: 5}, p)

	_, err = NewPage(-1, 0)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewPage(10, -1)
	assert.True(t, apperror.IsValidation(err))
}

func TestParseQueryKind(t *testing.T) {
	q, err := ParseQueryKind("")
	require.NoError(t, err)
	assert.Equal(t, QueryAll, q)

	q, err = ParseQueryKind("transfer_in")
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindTransferIn}, q.Sources())

	assert.Equal(t, []Kind{KindPurchase, KindTransferIn, KindTransferOut}, QueryNetMovement.Sources())
	assert.Equal(t, []Kind{KindPurchase, KindTransfer, KindExpenditure, KindAssignment}, QueryAll.Sources())

	_, err = ParseQueryKind("everything")
	assert.True(t, apperror.IsValidation(err))
}

package warehouse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

func TestNewWarehouse(t *testing.T) {
	w, err := NewWarehouse("  Main Depot ", " Dock 3 ", "cold storage")
	require.NoError(t, err)
	assert.Equal(t, "Main Depot", w.Name)
	assert.Equal(t, "Dock 3", w.Location)
	assert.False(t, w.CreatedAt.IsZero())
}

func TestNewWarehouse_Validation(t *testing.T) {
	tests := []struct {
		name     string
		whName   string
		location string
		want     error
	}{
		{"空名称", "   ", "", ErrInvalidName},
		{"名称过长", strings.Repeat("仓", 101), "", ErrInvalidName},
		{"地址过长", "A", strings.Repeat("x", 201), ErrInvalidLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWarehouse(tt.whName, tt.location, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewWarehouseNotEmpty(t *testing.T) {
	err := NewWarehouseNotEmpty(7, 3)

	assert.True(t, errors.Is(err, ErrWarehouseNotEmpty))
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeWarehouseNotEmpty, appErr.Code)
	assert.Equal(t, int64(3), appErr.Details["item_count"])
	assert.Nil(t, ErrWarehouseNotEmpty.Details, "预定义错误不应被修改")
}

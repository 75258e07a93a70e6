package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestError_CarriesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足").
		WithDetails(map[string]interface{}{"available": 3, "requested": 5})
	Error(c, err)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, resp.Code)
	assert.Equal(t, "库存不足", resp.Message)
	assert.EqualValues(t, 3, resp.Details["available"])
	assert.EqualValues(t, 5, resp.Details["requested"])
}

func TestError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, errors.New("dial tcp 10.0.0.1:3306: connection refused"))

	resp := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInternal, resp.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestNewPageData(t *testing.T) {
	page := NewPageData([]int{1, 2}, 41, 1, 20)

	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(41), page.Total)

	empty := NewPageData(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.TotalPages)
}

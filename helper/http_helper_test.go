package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"multiblog/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.ErrorValidation{}, http.StatusBadRequest},
		{models.ErrorUnauthorized{Message: "x"}, http.StatusUnauthorized},
		{models.ErrorForbidden{Message: "x"}, http.StatusForbidden},
		{models.ErrorNotFound{Message: "x"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", models.ErrorNotFound{Message: "x"}), http.StatusNotFound},
		{models.ErrorConflict{Message: "x"}, http.StatusConflict},
		{models.ErrorStorage{Message: "x", Err: errors.New("io")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, h.GetStatusCode(tt.err), "%v", tt.err)
	}
}

func TestSendServiceError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/posts", nil)

	NewHTTPHelper().SendServiceError(c, models.ErrorStorage{Message: "failed to store image", Err: errors.New("secret path /var/x")})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["code_message"])
	assert.NotContains(t, w.Body.String(), "secret path")
}

func TestSendValidationError_GroupsByField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NewHTTPHelper().SendValidationError(c, models.ErrorValidation{Fields: []models.FieldError{
		{Field: "title", Message: "title is a required field"},
		{Field: "tags", Message: "too long"},
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Code        int                 `json:"code"`
		CodeMessage map[string][]string `json:"code_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, codeValidationError, body.Code)
	assert.Equal(t, []string{"title is a required field"}, body.CodeMessage["title"])
	assert.Equal(t, []string{"too long"}, body.CodeMessage["tags"])
}

package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	domainerrors "leadflow.backend/internal/domain/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newContext()

	Success(c, http.StatusOK, gin.H{"ok": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestNoContent(t *testing.T) {
	c, w := newContext()

	NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestError_AppError(t *testing.T) {
	c, w := newContext()

	Error(c, domainerrors.NotFound("missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeNotFound)
	assert.Contains(t, w.Body.String(), "missing")
	assert.NotContains(t, w.Body.String(), `"fields"`)
}

func TestError_WrappedAppError(t *testing.T) {
	c, w := newContext()

	Error(c, fmt.Errorf("create lead: %w", domainerrors.PersistenceFailed(errors.New("conn reset"))))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodePersistenceFailed)
}

func TestError_ValidationFields(t *testing.T) {
	c, w := newContext()

	Error(c, domainerrors.ValidationFailed(domainerrors.FieldErrors{"email": "Please enter a valid email address"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"code": "VALIDATION_FAILED",
		"message": "validation failed",
		"error": "validation failed",
		"fields": {"email": "Please enter a valid email address"}
	}`, w.Body.String())
}

func TestError_Sentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainerrors.ErrNotFound, http.StatusNotFound},
		{domainerrors.ErrValidationFailed, http.StatusBadRequest},
		{domainerrors.ErrInvalidInput, http.StatusBadRequest},
		{domainerrors.ErrUnavailable, http.StatusServiceUnavailable},
		{domainerrors.ErrNoOpTransition, http.StatusConflict},
		{domainerrors.ErrTransitionDenied, http.StatusConflict},
		{fmt.Errorf("delete: %w", domainerrors.ErrMemberHasLeads), http.StatusConflict},
	}
	for _, tc := range cases {
		c, w := newContext()
		Error(c, tc.err)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}
}

func TestError_GenericError(t *testing.T) {
	c, w := newContext()

	Error(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), domainerrors.CodeInternalError)
}

func TestErrorWithError(t *testing.T) {
	c, w := newContext()

	ErrorWithError(c, http.StatusBadRequest, "ERR_X", "bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_X"`)
}

package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaperSize_IsValid(t *testing.T) {
	assert.True(t, PaperSizeA4.IsValid())
	assert.True(t, PaperSizeLetter.IsValid())
	assert.False(t, PaperSize("A5").IsValid())
	assert.False(t, PaperSize("").IsValid())
}

func TestPaperSize_Dimensions(t *testing.T) {
	w, h := PaperSizeA4.Dimensions()
	assert.Equal(t, 210.0, w)
	assert.Equal(t, 297.0, h)

	w, h = PaperSizeLetter.Dimensions()
	assert.Equal(t, 215.9, w)
	assert.Equal(t, 279.4, h)
}

func TestDefaultMargins(t *testing.T) {
	m := DefaultMargins()

	assert.Equal(t, 15.0, m.Top)
	assert.Equal(t, 15.0, m.Right)
	assert.Equal(t, 15.0, m.Bottom)
	assert.Equal(t, 15.0, m.Left)
}

func TestRenderError_Error(t *testing.T) {
	err := NewRenderError(ErrCodeRenderFailed, "rendering failed", nil)
	assert.Equal(t, "rendering failed", err.Error())

	cause := errors.New("underlying")
	err = NewRenderError(ErrCodeRenderFailed, "rendering failed", cause)
	assert.Equal(t, "rendering failed: underlying", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}

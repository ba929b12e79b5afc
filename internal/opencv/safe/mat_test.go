package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestMatPixelAccessors(t *testing.T) {
	mat, err := NewMat(4, 4, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer mat.Close()

	require.NoError(t, mat.SetUCharAt(1, 2, 200))
	v, err := mat.GetUCharAt(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint8(200), v)
}

func TestMatPixelAccessorsBounds(t *testing.T) {
	mat, err := NewMat(4, 4, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	defer mat.Close()

	_, err = mat.GetUCharAt(4, 0)
	assert.Error(t, err)
	_, err = mat.GetUCharAt(0, -1)
	assert.Error(t, err)
	assert.Error(t, mat.SetUCharAt(-1, 0, 1))
	assert.Error(t, mat.SetUCharAt(0, 4, 1))
}

func TestMatAccessorsAfterClose(t *testing.T) {
	mat, err := NewMat(4, 4, gocv.MatTypeCV8UC1)
	require.NoError(t, err)
	mat.Close()

	assert.False(t, mat.IsValid())
	_, err = mat.GetUCharAt(0, 0)
	assert.Error(t, err)
	assert.Error(t, mat.SetUCharAt(0, 0, 1))
	_, err = mat.Clone()
	assert.Error(t, err)
}

func TestMatRejectsInvalidDimensions(t *testing.T) {
	_, err := NewMat(0, 4, gocv.MatTypeCV8UC1)
	assert.Error(t, err)
	_, err = NewMat(4, -1, gocv.MatTypeCV8UC1)
	assert.Error(t, err)
}

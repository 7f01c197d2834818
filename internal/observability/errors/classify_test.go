package errors

import (
	goerrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	assert.Empty(t, Classify(nil))
	assert.Equal(t, "errors_errorstring", Classify(goerrors.New("boom")))
	assert.Equal(t, "errors_customerr", Classify(fmt.Errorf("wrap: %w", &customErr{})))
	assert.Equal(t, "errors_errorstring", Classify(&fs.PathError{Op: "open", Path: "x", Err: fs.ErrNotExist}))
}

func TestClassifyValue(t *testing.T) {
	assert.Equal(t, "nil", ClassifyValue(nil))
	assert.Equal(t, "string", ClassifyValue("boom"))
	assert.Equal(t, "int", ClassifyValue(42))
	assert.Equal(t, "errors_customerr", ClassifyValue(&customErr{}))
}

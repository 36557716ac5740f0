package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCodeAndChain(t *testing.T) {
	base := ConfigInvalid("SAMPLE_SIZE must be positive")
	err := Wrapf(base, "loading %s", "config")

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "loading config: SAMPLE_SIZE must be positive", err.Error())
	assert.True(t, stderrors.Is(err, base))
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	sentinel := stderrors.New("disk full")
	err := Wrap(fmt.Errorf("write: %w", sentinel), "export failed")

	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.True(t, stderrors.Is(err, sentinel))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("x")))
	assert.Equal(t, CodeNotFound, NotFound("model v3").Code)
	assert.Equal(t, "model v3 not found", NotFound("model v3").Error())

	cause := stderrors.New("permission denied")
	ioErr := IOError("results.xlsx", cause)
	assert.Equal(t, CodeIOError, GetCode(ioErr))
	assert.True(t, stderrors.Is(ioErr, cause))
	assert.Equal(t, CodeModelError, ModelError("bad booster", cause).Code)
	assert.Equal(t, CodeInvalidInput, InvalidInput("no tests").Code)
}

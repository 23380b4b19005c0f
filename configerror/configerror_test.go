package configerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendError struct {
	code int
}

func (e backendError) Error() string  { return fmt.Sprintf("backend failure %d", e.code) }
func (e backendError) ErrorCode() int { return e.code }

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := New(ParsingError, "bad payload", errors.New("unexpected token"))

	assert.Equal(t, "ParsingError. bad payload", err.Error())
}

func TestError_MessageDefaultsToCause(t *testing.T) {
	t.Parallel()

	err := New(ConfigResourceNotFound, "", errors.New("timeout"))

	assert.Equal(t, "ConfigResourceNotFound. timeout", err.Error())
}

func TestError_IsMatchesByCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", New(ParsingError, "decode", cause))

	require.ErrorIs(t, err, ErrParsing)
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrFieldNotFound)
	assert.Equal(t, ParsingError, CodeOf(err))
}

func TestFromSource(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "plain error uses fallback",
			err:      errors.New("network down"),
			expected: ConfigResourceNotFound,
		},
		{
			name:     "backend code passes through",
			err:      fmt.Errorf("fetch: %w", backendError{code: 42}),
			expected: Code(42),
		},
		{
			name:     "existing config error is kept",
			err:      Newf(AdapterNotReady, "not ready"),
			expected: AdapterNotReady,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			converted := FromSource(testCase.err, ConfigResourceNotFound, "fetch failed")

			require.NotNil(t, converted)
			assert.Equal(t, testCase.expected, converted.Code)
			assert.ErrorIs(t, converted, testCase.err)
		})
	}
}

func TestFromSource_BackendCodeSharesNumberSpace(t *testing.T) {
	t.Parallel()

	cause := backendError{code: int(ParsingError)}
	converted := FromSource(cause, ConfigResourceNotFound, "fetch failed")

	assert.Equal(t, ParsingError, converted.Code)
	require.ErrorIs(t, converted, ErrParsing)

	var backend backendError
	require.ErrorAs(t, converted, &backend)
	assert.Equal(t, 2, backend.ErrorCode())
}

func TestFromSource_Nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromSource(nil, Unknown, ""))
}

func TestCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "FieldNotFound", FieldNotFound.String())
	assert.Equal(t, "Code(42)", Code(42).String())
	assert.Equal(t, Unknown, CodeOf(errors.New("plain")))
}

package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestCombinedWriter_Write(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	cw := NewCombinedWriter(&buf1, &buf2)

	n, err := cw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "hello", buf1.String())
	assert.Equal(t, "hello", buf2.String())
}

func TestCombinedWriter_Write_PartialFailure(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCombinedWriter(failingWriter{}, &buf)

	n, err := cw.Write([]byte("hello"))
	assert.Error(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

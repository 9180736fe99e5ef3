package safe_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/aegis/pkg/utils/safe"
)

type failingCloser struct {
	closed bool
}

func (c *failingCloser) Close() error {
	c.closed = true
	return errors.New("close failed")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	safe.Close(ctx, nil)

	c := &failingCloser{}
	safe.Close(ctx, c, "path", "a/b")
	gt.Bool(t, c.closed).True()
}

func TestCopy(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	n := safe.Copy(ctx, &buf, strings.NewReader("hello"))
	gt.Value(t, n).Equal(int64(5))
	gt.Value(t, buf.String()).Equal("hello")

	n = safe.Copy(ctx, failingWriter{}, strings.NewReader("hello"))
	gt.Value(t, n).Equal(int64(0))
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	safe.Write(ctx, &buf, []byte("ok"))
	gt.Value(t, buf.String()).Equal("ok")

	safe.Write(ctx, nil, []byte("ignored"))
	safe.Write(ctx, failingWriter{}, []byte("x"))
}

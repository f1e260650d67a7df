package ecoji_test

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quackduck/ecoji"
	"github.com/quackduck/ecoji/alphabet"
)

func TestEncoderMatchesEncodeToString(t *testing.T) {
	rnd := rand.New(rand.NewSource(10))
	for n := 0; n < 100; n++ {
		in := randomBytes(rnd, n)
		want := ecoji.EncodeToString(in)

		// one byte per Write exercises the packer state carried between calls
		var buf bytes.Buffer
		enc := ecoji.NewEncoder(&buf)
		for i := range in {
			written, err := enc.Write(in[i : i+1])
			require.NoError(t, err)
			require.Equal(t, 1, written)
		}
		require.NoError(t, enc.Close())
		assert.Equal(t, want, buf.String(), "n=%d", n)

		buf.Reset()
		require.NoError(t, ecoji.NewCoding(nil).Encode(&buf, bytes.NewReader(in)))
		assert.Equal(t, want, buf.String(), "n=%d", n)
	}
}

func TestEncoderSmallBuffer(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	in := randomBytes(rnd, 10_000)

	c := ecoji.NewCoding(nil)
	c.SetBufferSize(1)
	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, iotest.HalfReader(bytes.NewReader(in))))
	assert.Equal(t, ecoji.EncodeToString(in), buf.String())

	var out bytes.Buffer
	require.NoError(t, c.Decode(&out, iotest.OneByteReader(&buf)))
	assert.Equal(t, in, out.Bytes())
}

func TestDecoderReads(t *testing.T) {
	rnd := rand.New(rand.NewSource(12))
	for n := 0; n < 100; n++ {
		in := randomBytes(rnd, n)
		s := ecoji.EncodeToString(in)

		got, err := io.ReadAll(ecoji.NewDecoder(iotest.OneByteReader(strings.NewReader(s))))
		require.NoError(t, err, "n=%d", n)
		assert.Equal(t, string(in), string(got))

		require.NoError(t, iotest.TestReader(ecoji.NewDecoder(strings.NewReader(s)), in), "n=%d", n)
	}
}

func TestWrap(t *testing.T) {
	c := ecoji.NewCoding(nil)
	c.SetWrap(4)
	in := []byte("0123456789abc")
	symbols := ecoji.EncodeSymbols(in)
	require.Len(t, symbols, 11)

	var buf bytes.Buffer
	require.NoError(t, c.Encode(&buf, bytes.NewReader(in)))
	want := strings.Join(symbols[:4], "") + "\n" + strings.Join(symbols[4:8], "") + "\n" + strings.Join(symbols[8:], "") + "\n"
	assert.Equal(t, want, buf.String())

	got, err := c.DecodeString(buf.String())
	require.NoError(t, err)
	assert.Equal(t, in, got)

	t.Run("exact multiple", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, c.Encode(&buf, strings.NewReader("0123456789")))
		assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})
	t.Run("empty input", func(t *testing.T) {
		buf.Reset()
		require.NoError(t, c.Encode(&buf, strings.NewReader("")))
		assert.Empty(t, buf.String())
	})
	t.Run("disabled", func(t *testing.T) {
		c.SetWrap(-3)
		buf.Reset()
		require.NoError(t, c.Encode(&buf, bytes.NewReader(in)))
		assert.Equal(t, strings.Join(symbols, ""), buf.String())
	})
}

func TestDecodeStreamError(t *testing.T) {
	symbols := ecoji.EncodeSymbols([]byte("0123456789"))
	s := strings.Join(symbols[:4], "") + "!" + strings.Join(symbols[4:], "")

	var out bytes.Buffer
	err := ecoji.NewCoding(nil).Decode(&out, strings.NewReader(s))
	requireDecodeError(t, err, ecoji.ErrUnknownSymbol, 4)
	assert.Equal(t, "01234", out.String(), "bytes before the bad symbol are delivered")

	_, err = io.ReadAll(ecoji.NewDecoder(strings.NewReader(strings.Join(symbols[:3], ""))))
	requireDecodeError(t, err, ecoji.ErrTruncatedStream, 3)

	pad := alphabet.Default().Symbol(alphabet.Pad1, 0)
	_, err = io.ReadAll(ecoji.NewDecoder(strings.NewReader(pad + symbols[0])))
	requireDecodeError(t, err, ecoji.ErrMalformedPadding, 0)
}

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestIOErrors(t *testing.T) {
	boom := errors.New("boom")
	c := ecoji.NewCoding(nil)

	err := c.Encode(failWriter{boom}, strings.NewReader("hello"))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "writing encoded output")

	err = c.Encode(io.Discard, iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)

	err = c.Decode(io.Discard, iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "reading encoded input")

	enc := c.NewEncoder(failWriter{boom})
	_, err = enc.Write([]byte("abc"))
	require.NoError(t, err, "output is buffered until Close")
	assert.ErrorIs(t, enc.Close(), boom)
	_, err = enc.Write([]byte("more"))
	assert.ErrorIs(t, err, boom)
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(seed))
			for i := 0; i < 50; i++ {
				in := randomBytes(rnd, rnd.Intn(64))
				out, err := ecoji.DecodeString(ecoji.EncodeToString(in))
				assert.NoError(t, err)
				assert.Equal(t, string(in), string(out))
			}
		}(int64(g))
	}
	wg.Wait()
}

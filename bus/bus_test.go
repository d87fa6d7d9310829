package bus

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filebus/filebus/channel"
	"github.com/filebus/filebus/fifo"
	"github.com/filebus/filebus/message"
	"github.com/filebus/filebus/topic"
)

func TestBasicDelivery(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "news.sports")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	n, err := Publish(root, "news.sports", []byte("hi"), nil, DefaultOptions)
	require.NoError(err)
	assert.Equal(1, n)

	msg, err := Fetch(c)
	require.NoError(err)
	require.NotNil(msg)
	assert.Equal("news.sports", msg.Topic)
	assert.Equal([]byte("hi"), msg.Content)

	msg2, err := Fetch(c)
	require.NoError(err)
	assert.Nil(msg2)
}

func TestSingleWordWildcard(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "news.=")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	for _, top := range []string{"news.sports", "news.tech", "news", "news.tech.2025"} {
		_, err := Publish(root, top, []byte(top), nil, DefaultOptions)
		require.NoError(err)
	}

	var got []string
	for {
		msg, err := Fetch(c)
		require.NoError(err)
		if msg == nil {
			break
		}
		got = append(got, msg.Topic)
	}

	assert.Equal([]string{"news.sports", "news.tech"}, got)
}

func TestMultiWordWildcard(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "logs.+")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	topics := []string{"logs.error", "logs.app.error", "logs", "logs.a.b.c"}
	for _, top := range topics {
		_, _ = Publish(root, top, []byte(top), nil, DefaultOptions)
	}

	var got []string
	for {
		msg, err := Fetch(c)
		require.NoError(err)
		if msg == nil {
			break
		}
		got = append(got, msg.Topic)
	}

	assert.Equal([]string{"logs.error", "logs.app.error", "logs.a.b.c"}, got)
}

func TestFanOutCount(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	var chans []*channel.Channel
	for i := 0; i < 3; i++ {
		c, err := channel.New(root, "evt")
		require.NoError(err)
		require.NoError(c.Open())
		defer c.Close()
		chans = append(chans, c)
	}

	n, err := Publish(root, "evt", []byte("x"), nil, DefaultOptions)
	require.NoError(err)
	assert.Equal(3, n)

	for _, c := range chans {
		msg, err := Fetch(c)
		require.NoError(err)
		require.NotNil(msg)
		assert.Equal([]byte("x"), msg.Content)
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "h")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	headers := map[string]any{
		"p":    "high",
		"n":    int64(7),
		"r":    0.5,
		"ok":   true,
		"none": nil,
	}
	n, err := Publish(root, "h", nil, headers, DefaultOptions)
	require.NoError(err)
	assert.Equal(1, n)

	msg, err := Fetch(c)
	require.NoError(err)
	require.NotNil(msg)

	assert.Equal("high", msg.Headers["p"].String())
	nv, ok := msg.Headers["n"].Int64()
	assert.True(ok)
	assert.EqualValues(7, nv)
	rv, ok := msg.Headers["r"].Float64()
	assert.True(ok)
	assert.Equal(0.5, rv)
	ov, ok := msg.Headers["ok"].Bool()
	assert.True(ok)
	assert.True(ov)
	assert.Equal(message.KindNull, msg.Headers["none"].Kind)
}

func TestSubscribeWithTimeout(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "sub")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	start := time.Now()
	n, err := Subscribe(c, func(*message.Message) error { return nil }, 150*time.Millisecond, DefaultOptions)
	elapsed := time.Since(start)
	require.NoError(err)
	assert.Equal(0, n)
	assert.GreaterOrEqual(elapsed, 150*time.Millisecond)

	_, err = Publish(root, "sub", []byte("1"), nil, DefaultOptions)
	require.NoError(err)
	_, err = Publish(root, "sub", []byte("2"), nil, DefaultOptions)
	require.NoError(err)

	var seen []string
	n, err = Subscribe(c, func(m *message.Message) error {
		seen = append(seen, string(m.Content))
		return nil
	}, 500*time.Millisecond, DefaultOptions)
	require.NoError(err)
	assert.Equal(2, n)
	assert.Equal([]string{"1", "2"}, seen)
}

func TestCrashResilience(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()

	// Simulate a crashed subscriber directly: a process that created its
	// directory and FIFO, then exited without calling Close. A real crash
	// leaves no reader attached because the kernel closes every fd the
	// process held; reproduce that here by opening the read end and
	// closing it, rather than going through channel.Channel (which would
	// keep holding it open for the rest of the test).
	dir := filepath.Join(root, topic.Sanitize("crash")+".simulated-crash")
	require.NoError(os.MkdirAll(dir, 0o755))
	fifoPath := filepath.Join(dir, fifo.Name)
	require.NoError(fifo.Create(fifoPath))
	require.NoError(os.WriteFile(filepath.Join(dir, channel.PatternFile), []byte("crash"), 0o644))
	rd, err := fifo.OpenRead(fifoPath)
	require.NoError(err)
	require.NoError(rd.Close())

	n, err := Publish(root, "crash", []byte("x"), nil, DefaultOptions)
	require.NoError(err)
	assert.Equal(0, n)
}

func TestInvalidTopicOnPublish(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	root := t.TempDir()
	c, err := channel.New(root, "a.=.b")
	require.NoError(err)
	require.NoError(c.Open())
	defer c.Close()

	n, err := Publish(root, "a.=.b", []byte("x"), nil, DefaultOptions)
	require.Error(err)
	assert.ErrorIs(err, topic.ErrWildcard)
	assert.Equal(0, n)
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/afishhh/ftlman/internal/progress"
)

func TestNewReporterUnknownTotalNoticesOnce(t *testing.T) {
	var logBuf, out bytes.Buffer
	log := zerolog.New(&logBuf)

	rep := newReporter(false, 0, &out, log)
	assert.Equal(t, 1, strings.Count(logBuf.String(), "content length is not present"))

	// The reporter still exists but Copy never updates it without a total.
	n, err := progress.Copy(&out, strings.NewReader("payload"), 0, rep)
	assert.NoError(t, err)
	assert.Equal(t, int64(len("payload")), n)
	assert.Equal(t, "payload", out.String())
}

func TestNewReporterKnownTotalStaysQuiet(t *testing.T) {
	var logBuf, out bytes.Buffer
	log := zerolog.New(&logBuf)

	newReporter(false, 100, &out, log)
	assert.Empty(t, logBuf.String())
}

func TestNewReporterNoProgressSuppressesNotice(t *testing.T) {
	var logBuf, out bytes.Buffer
	log := zerolog.New(&logBuf)

	rep := newReporter(true, 0, &out, log)
	assert.Empty(t, logBuf.String())

	rep.Update(1, 2)
	rep.Finish()
	assert.Empty(t, out.String())
}

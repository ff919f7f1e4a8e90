package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveTransform(t *testing.T) {
	counter := transformsTotal.WithLabelValues("Minify", "test", "ok")
	before := testutil.ToFloat64(counter)

	ObserveTransform("Minify", "test", "ok", 10, time.Millisecond)
	ObserveTransform("Minify", "test", "ok", 20, time.Millisecond)
	ObserveTransform("Minify", "test", "parse", 5, time.Millisecond)

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, 1.0, testutil.ToFloat64(transformsTotal.WithLabelValues("Minify", "test", "parse")))
}

func TestSocketClientConnected(t *testing.T) {
	before := testutil.ToFloat64(socketClients)

	done := SocketClientConnected()
	assert.Equal(t, before+1, testutil.ToFloat64(socketClients))

	done()
	assert.Equal(t, before, testutil.ToFloat64(socketClients))
}

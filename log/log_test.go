//nolint:funlen // ok for tests
package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_respectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel)
	l.Debug("hidden")
	l.Info("shown", String("key", "value"), Int("num", 3))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"num":3`)
}

func TestWithFilter(t *testing.T) {
	tests := []struct {
		name     string
		rules    string
		logger   string
		wantSeen bool
	}{
		{name: "debug enabled for store", rules: "debug:store.*", logger: "store.file", wantSeen: true},
		{name: "debug suppressed elsewhere", rules: "debug:store.*", logger: "service", wantSeen: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			base := New(buf, DebugLevel)
			l, err := base.WithFilter(tt.rules)
			require.NoError(t, err)
			l.Named(tt.logger).Debug("probe")
			assert.Equal(t, tt.wantSeen, strings.Contains(buf.String(), "probe"))
		})
	}
}

func TestGetFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, InfoLevel).Named("ctx")
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
	assert.Same(t, Default(), GetFromContext(context.Background()))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)
	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/obe/core"
)

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	err := errors.New("boom")

	args := l.prepare("failed", []interface{}{
		err,
		core.RequestInfo{ID: "42", Method: "GET", Path: "/v1/dashboard"},
		map[string]interface{}{"outcome": "PLO1"},
	})
	assert.Equal(t, []interface{}{
		"failed",
		err,
		map[string]interface{}{"request_id": "42", "method": "GET", "path": "/v1/dashboard", "outcome": "PLO1"},
	}, args)

	assert.Equal(t, []interface{}{"plain"}, l.prepare("plain", nil))
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	l := RollbarLogger{std: log.New(&buf, "", 0)}
	l.Enable(false)

	l.Info("seeded", 12)
	assert.Equal(t, "seeded\n12\n", buf.String())
}

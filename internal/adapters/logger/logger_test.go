package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Wtada233/lrepo/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
)

func TestLogger_Levels(t *testing.T) {
	log := logger.New()
	var out bytes.Buffer
	log.SetOutput(&out)

	log.Info("scanning packages")
	log.Warn("skipping malformed archive")
	log.Error(errors.New("unpack failed"))

	s := out.String()
	assert.Contains(t, s, "level=INFO")
	assert.Contains(t, s, "scanning packages")
	assert.Contains(t, s, "level=WARN")
	assert.Contains(t, s, "level=ERROR")
	assert.Contains(t, s, "unpack failed")
}

package database

import (
	"testing"

	"github.com/srgjo27/rail_booking/internal/platform/logging"
	"github.com/stretchr/testify/assert"
)

func TestOpen_GivesUpAfterMaxRetries(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: "1", User: "u", DBName: "d", MaxRetries: 1}

	db, err := NewPostgresDB(cfg, logging.Discard())
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "connect postgres")

	db, err = NewMySQLDB(cfg, logging.Discard())
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "connect mysql")
}

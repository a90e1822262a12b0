package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/outages?limit=25&offset=-3&bad=x", nil)

	assert.Equal(t, 25, QueryInt(r, "limit", 100, 1, 1000))
	assert.Equal(t, 0, QueryInt(r, "offset", 0, 0, 1<<20))
	assert.Equal(t, 7, QueryInt(r, "bad", 7, 0, 10))
	assert.Equal(t, 9, QueryInt(r, "missing", 9, 0, 10))
}

func TestQueryHoursAndBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/statistics?hours=48&ongoing_only=true", nil)

	assert.Equal(t, 48*time.Hour, QueryHours(r, 168))
	assert.True(t, QueryBool(r, "ongoing_only"))
	assert.False(t, QueryBool(r, "other"))
}

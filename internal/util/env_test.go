package util_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github/chapool/testnet-tokens/internal/util"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("UTIL_TEST_VALUE", "abc")
	assert.Equal(t, "abc", util.GetEnv("UTIL_TEST_VALUE", "def"))
	assert.Equal(t, "def", util.GetEnv("UTIL_TEST_MISSING", "def"))

	t.Setenv("UTIL_TEST_EMPTY", "")
	assert.Equal(t, "", util.GetEnv("UTIL_TEST_EMPTY", "def"))
}

func TestGetEnvParsed(t *testing.T) {
	t.Setenv("UTIL_TEST_INT", "42")
	t.Setenv("UTIL_TEST_BOOL", "false")
	t.Setenv("UTIL_TEST_DURATION", "90s")
	t.Setenv("UTIL_TEST_BROKEN", "not-a-number")

	assert.Equal(t, 42, util.GetEnvAsInt("UTIL_TEST_INT", 1))
	assert.Equal(t, uint32(42), util.GetEnvAsUint32("UTIL_TEST_INT", 1))
	assert.Equal(t, uint64(42), util.GetEnvAsUint64("UTIL_TEST_INT", 1))
	assert.False(t, util.GetEnvAsBool("UTIL_TEST_BOOL", true))
	assert.Equal(t, 90*time.Second, util.GetEnvAsDuration("UTIL_TEST_DURATION", time.Second))

	assert.Equal(t, 1, util.GetEnvAsInt("UTIL_TEST_BROKEN", 1))
	assert.Equal(t, uint32(7), util.GetEnvAsUint32("UTIL_TEST_BROKEN", 7))
	assert.True(t, util.GetEnvAsBool("UTIL_TEST_BROKEN", true))
	assert.Equal(t, time.Second, util.GetEnvAsDuration("UTIL_TEST_BROKEN", time.Second))
}

func TestGetEnvAsStringArr(t *testing.T) {
	t.Setenv("UTIL_TEST_ARR", " http://a:8545 , ,http://b:8545")
	assert.Equal(t, []string{"http://a:8545", "http://b:8545"}, util.GetEnvAsStringArr("UTIL_TEST_ARR", nil))

	t.Setenv("UTIL_TEST_ARR_SEP", "a|b")
	assert.Equal(t, []string{"a", "b"}, util.GetEnvAsStringArr("UTIL_TEST_ARR_SEP", nil, "|"))

	t.Setenv("UTIL_TEST_ARR_EMPTY", " , ")
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("UTIL_TEST_ARR_EMPTY", []string{"x"}))
	assert.Equal(t, []string{"x"}, util.GetEnvAsStringArr("UTIL_TEST_ARR_MISSING", []string{"x"}))
}

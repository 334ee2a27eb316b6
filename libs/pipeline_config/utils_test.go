package pipeline_config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesTestModule(t *testing.T) {
	assert.True(t, MatchesTestModule("tests/test_auth.py", "tests"))
	assert.True(t, MatchesTestModule("tests/regression/test_benchmarks.py", "tests"))
	assert.False(t, MatchesTestModule("openeo/connection.py", "tests"))
	assert.False(t, MatchesTestModule("tests/test_auth.py", ""))
}

func TestNormalizePackageName(t *testing.T) {
	assert.Equal(t, "openeo-cdse-tests", NormalizePackageName("OpenEO_CDSE.tests"))
	assert.Equal(t, "a-b", NormalizePackageName("a__b"))
	assert.Equal(t, "openeo", NormalizePackageName("openeo"))
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanISBN_ThirteenDigits(t *testing.T) {
	got := CleanISBN(str("978-1-4919-5038-5"))
	require.NotNil(t, got)
	assert.Equal(t, "9781491950385", *got)
}

func TestCleanISBN_TenWithCheckX(t *testing.T) {
	got := CleanISBN(str("0-8044-2957-X"))
	require.NotNil(t, got)
	assert.Equal(t, "080442957X", *got)
}

func TestCleanISBN_InvalidLengthDiscarded(t *testing.T) {
	assert.Nil(t, CleanISBN(str("12345")))
	assert.Nil(t, CleanISBN(str("97814919503850000")))
	assert.Nil(t, CleanISBN(str("ISBN pending")))
}

func TestCleanISBN_Sentinels(t *testing.T) {
	assert.Nil(t, CleanISBN(nil))
	assert.Nil(t, CleanISBN(str("None")))
	assert.Nil(t, CleanISBN(str("  ")))
}

func TestIsISBN13(t *testing.T) {
	assert.True(t, IsISBN13(str("9781491950385")))
	assert.False(t, IsISBN13(str("149195038X")))
	assert.False(t, IsISBN13(str("978149195038"))) // 12 chars
	assert.False(t, IsISBN13(nil))
}

func TestIsISBN10(t *testing.T) {
	assert.True(t, IsISBN10(str("0804429575")))
	assert.True(t, IsISBN10(str("080442957X")))
	assert.False(t, IsISBN10(str("08044295X7"))) // X not in final position
	assert.False(t, IsISBN10(str("9781491950385")))
	assert.False(t, IsISBN10(nil))
}

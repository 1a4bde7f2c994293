package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnoltman65/commerce-authnet/models"
)

func TestParseRemoteID_SingleToken(t *testing.T) {
	id, err := models.ParseRemoteID("20001")
	require.NoError(t, err)
	assert.False(t, id.IsComposite())
	assert.Equal(t, "20001", id.Token())
	assert.Equal(t, "20001", id.String())
}

func TestParseRemoteID_Composite(t *testing.T) {
	id, err := models.ParseRemoteID("10001|20001")
	require.NoError(t, err)
	assert.True(t, id.IsComposite())
	first, second := id.Pair()
	assert.Equal(t, "10001", first)
	assert.Equal(t, "20001", second)
	assert.Equal(t, "10001|20001", id.String())
}

func TestParseRemoteID_Rejects(t *testing.T) {
	for _, input := range []string{"", "|", "a|", "|b", "a|b|c"} {
		_, err := models.ParseRemoteID(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestRemoteID_FormatRoundTrip(t *testing.T) {
	composite := models.CompositePair("COMMON.ACCEPT.INAPP.PAYMENT", "opaque-value")
	parsed, err := models.ParseRemoteID(composite.String())
	require.NoError(t, err)
	assert.Equal(t, composite, parsed)

	single := models.SingleToken("20001")
	parsed, err = models.ParseRemoteID(single.String())
	require.NoError(t, err)
	assert.Equal(t, single, parsed)
}

package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	value, err := normalize("previousMeetingData", json.RawMessage(`{"Alice": 95}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Alice":95}`, string(value))

	value, err = normalize("teamMembers", json.RawMessage(`[{"name":"Bob","avatarUrl":"b.png"}]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Bob","avatarUrl":"b.png"}]`, string(value))

	value, err = normalize("theme", json.RawMessage(`"dark"`))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	_, err := normalize("previousMeetingData", json.RawMessage(`{"Alice": -3}`))
	assert.Error(t, err)

	_, err = normalize("previousMeetingData", json.RawMessage(`[1,2]`))
	assert.Error(t, err)

	_, err = normalize("teamMembers", json.RawMessage(`[{"name":"Bob"}]`))
	assert.Error(t, err)
}

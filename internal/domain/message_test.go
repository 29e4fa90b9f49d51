package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "integer", input: `42`, want: "42"},
		{name: "uuid string", input: `"3f0b8c2e-1111-4a4a-9b9b-000000000001"`, want: "3f0b8c2e-1111-4a4a-9b9b-000000000001"},
		{name: "null", input: `null`, want: ""},
		{name: "float rejected", input: `1.5`, wantErr: true},
		{name: "object rejected", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestID_MarshalJSON(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "name": "Sara", "is_guest": true}`), &u))

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"id":"7"`)
	assert.True(t, u.IsGuest)
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{
			name: "valid message",
			msg: Message{
				Timestamp:      "2024-01-15T10:30:00Z",
				SenderName:     "Ahmed",
				MessageContent: "hello",
			},
		},
		{
			name: "naive timestamp accepted",
			msg: Message{
				Timestamp:      "2024-01-15T10:30:00.123456",
				MessageContent: "hello",
			},
		},
		{
			name:    "empty content",
			msg:     Message{Timestamp: "2024-01-15T10:30:00Z", MessageContent: "  "},
			wantErr: true,
		},
		{
			name:    "bad timestamp",
			msg:     Message{Timestamp: "yesterday", MessageContent: "hello"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrValidationFailed))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"2024-01-15T10:30:00Z",
		"2024-01-15T12:30:00+02:00",
		"2024-01-15T10:30:00",
		"2024-01-15 10:30:00",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := ParseTimestamp("")
	assert.Error(t, err)
}

func TestNewUser_Validate(t *testing.T) {
	assert.NoError(t, NewUser{Name: "Lina", ApproximateAge: 30}.Validate())
	assert.Error(t, NewUser{Name: ""}.Validate())
	assert.Error(t, NewUser{Name: "Lina", ApproximateAge: 200}.Validate())
}

func TestUser_Known(t *testing.T) {
	age := 40
	u := User{Name: "Omar"}
	assert.False(t, u.HasAge())
	assert.False(t, u.HasGender())

	u.DetectedAge = &age
	u.DetectedGender = "male"
	assert.True(t, u.HasAge())
	assert.True(t, u.HasGender())
}

package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckKeepsFirstError(t *testing.T) {
	v := New()

	v.Check(false, "name", "must be provided")
	v.Check(false, "name", "must not be more than 500 bytes long")
	v.Check(true, "email", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"name": "must be provided"}, v.Errors)
}

func TestMatchesEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"bob.smith+films@mail.example.org", true},
		{"alice", false},
		{"alice@", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.email, EmailRX))
		})
	}
}

func TestPermittedValueAndUnique(t *testing.T) {
	assert.True(t, PermittedValue("s3", "s3", "local"))
	assert.False(t, PermittedValue("ftp", "s3", "local"))

	assert.True(t, Unique([]int64{3, 1, 2}))
	assert.False(t, Unique([]int64{3, 1, 3}))
}

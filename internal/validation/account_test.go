package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "secret1", false},
		{"Exactly Min Length", "abcdef", false},
		{"Exactly Max Length", strings.Repeat("b", 128), false},
		{"Too Short", "abc12", true},
		{"Too Long", strings.Repeat("b", 129), true},
		{"Blank", "        ", true},
		{"Unicode Characters", "Ångström", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Short But Valid", "bob1", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 254 chars total: 64 local + @ + 185 domain label + ".com" (4)
	emailAt254 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 185) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "bob@x.com", false},
		{"Exactly 254 Characters", emailAt254, false},
		{"Too Long", "a" + emailAt254, true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Missing TLD", "user@example", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "bob@x.com", NormalizeEmail("  Bob@X.com "))
	assert.Equal(t, "bob1", NormalizeUsername(" bob1\t"))
}

func TestFieldErrors(t *testing.T) {
	t.Parallel()
	f := FieldErrors{}
	assert.NoError(t, f.Err())

	f.Required(map[string]string{"city": " ", "fullName": "Ann"})
	f.Range("height", 20, MinHeightCM, MaxHeightCM)
	f.Add("city", "ignored duplicate")

	err := f.Err()
	assert.Error(t, err)
	assert.Equal(t, "city: is required; height: must be between 50 and 300", err.Error())
}

func TestParseBirthdate(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := ParseBirthdate("1990-05-17", now)
	assert.NoError(t, err)
	assert.Equal(t, 1990, got.Year())

	_, err = ParseBirthdate("1990-05-17T10:00:00Z", now)
	assert.NoError(t, err)

	_, err = ParseBirthdate("17/05/1990", now)
	assert.Error(t, err)

	_, err = ParseBirthdate("2030-01-01", now)
	assert.Error(t, err)
}

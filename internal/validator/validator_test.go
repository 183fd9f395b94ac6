package validator_test

import (
	"fmt"
	"testing"

	"groupchat-backend/internal/validator"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		expectedError error
	}{
		// valid cases
		{
			name:          "Valid: Plain username",
			username:      "alice",
			expectedError: nil,
		},
		{
			name:          "Valid: Minimum length (2 chars)",
			username:      "ab",
			expectedError: nil,
		},
		{
			name:          "Valid: Dots, dashes and underscores inside",
			username:      "first.last_name-99",
			expectedError: nil,
		},
		{
			name:          "Valid: Maximum length (32 chars)",
			username:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			expectedError: nil,
		},

		// length
		{
			name:          "Error: Too short (1 char)",
			username:      "a",
			expectedError: fmt.Errorf("short_username"),
		},
		{
			name:          "Error: Too long (33 chars)",
			username:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			expectedError: fmt.Errorf("long_username"),
		},

		// bad format
		{
			name:          "Error: Starts with a dot",
			username:      ".alice",
			expectedError: fmt.Errorf("bad_format"),
		},
		{
			name:          "Error: Ends with an underscore",
			username:      "alice_",
			expectedError: fmt.Errorf("bad_format"),
		},
		{
			name:          "Error: Contains a space",
			username:      "ali ce",
			expectedError: fmt.Errorf("bad_format"),
		},
		{
			name:          "Error: Contains an @ sign",
			username:      "alice@home",
			expectedError: fmt.Errorf("bad_format"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.Username(tc.username)

			if tc.expectedError == nil {
				if err != nil {
					t.Errorf("Username(%q) failed unexpectedly: got error %v, want nil", tc.username, err)
				}
				return
			}

			if err == nil {
				t.Errorf("Username(%q) passed unexpectedly: got nil, want error %v", tc.username, tc.expectedError)
				return
			}

			if err.Error() != tc.expectedError.Error() {
				t.Errorf("Username(%q) got error %q, want error %q", tc.username, err.Error(), tc.expectedError.Error())
			}
		})
	}
}

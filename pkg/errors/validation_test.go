package errors

import "testing"

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"canvas-1", false},
		{"6f1c2a34-9b1e-4c55-8f7a-0d2b4b1c9e11", false},
		{"", true},
		{"a b", true},
		{"../etc", true},
		{"x/y", true},
		{"tab\tid", true},
		{string(make([]byte, 129)), true},
	}
	for _, tt := range tests {
		err := ValidateID("canvas", tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidID) {
			t.Errorf("ValidateID(%q) code = %v", tt.id, GetCode(err))
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://cdn.example.com/a.png", false},
		{"http://localhost:8080/img", false},
		{"", true},
		{"ftp://host/file", true},
		{"javascript:alert(1)", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.url); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

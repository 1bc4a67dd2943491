package radio_test

import (
	"testing"

	"i4.energy/across/btbond/radio"
)

func TestConfig(t *testing.T) {
	t.Run("ErrNoDialer when no dialer provided", func(t *testing.T) {
		_, err := radio.NewConfigBuilder().Build()

		if err != radio.ErrNoDialer {
			t.Errorf("expected ErrNoDialer, got: %v", err)
		}
	})

	t.Run("Line capacity too small", func(t *testing.T) {
		_, err := radio.NewConfigBuilder().
			WithDialer(radio.NewTestTransport()).
			WithLineCapacity(1).
			Build()

		if err == nil {
			t.Error("expected error for a line capacity of 1")
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		_, err := radio.NewConfigBuilder().
			WithDialer(radio.NewTestTransport()).
			Build()

		if err != nil {
			t.Errorf("unexpected error from Build(): %v", err)
		}
	})
}

func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		input    string
		expected radio.MatchMode
		wantErr  bool
	}{
		{input: "", expected: radio.MatchInOrder},
		{input: "inorder", expected: radio.MatchInOrder},
		{input: "in-order", expected: radio.MatchInOrder},
		{input: "contiguous", expected: radio.MatchContiguous},
		{input: "strict", expected: radio.MatchContiguous},
		{input: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := radio.ParseMatchMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}

	if radio.MatchContiguous.String() != "contiguous" || radio.MatchInOrder.String() != "inorder" {
		t.Error("unexpected MatchMode names")
	}
}

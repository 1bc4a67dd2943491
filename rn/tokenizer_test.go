package rn_test

import (
	"bufio"
	"strings"
	"testing"

	"i4.energy/across/btbond/rn"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Enter command mode",
			input:    "CMD\r\n",
			expected: []string{"CMD"},
		},
		{
			name:     "Acknowledged configuration",
			input:    "AOK\r\nAOK\r\n",
			expected: []string{"AOK", "AOK"},
		},
		{
			name:     "Bare carriage returns",
			input:    "0006664A1B2C\rEND\r",
			expected: []string{"0006664A1B2C", "END"},
		},
		{
			name:     "Bare line feeds",
			input:    "1,0,0\nEND\n",
			expected: []string{"1,0,0", "END"},
		},
		{
			name:     "Settings dump",
			input:    "***Settings***\r\nBTA=0006664A1B2C\r\nBTName=RN42-1B2C\r\n",
			expected: []string{"***Settings***", "BTA=0006664A1B2C", "BTName=RN42-1B2C"},
		},
		{
			name:     "Empty lines handling",
			input:    "\r\n\r\nAOK\r\n",
			expected: []string{"", "", "AOK"},
		},
		{
			name:     "Reboot acknowledgment",
			input:    "Reboot!\r\n",
			expected: []string{"Reboot!"},
		},
		// EOF scenarios - testing atEOF functionality
		{
			name:     "Reply without terminator at EOF",
			input:    "AOK\r\nEN",
			expected: []string{"AOK", "EN"},
		},
		{
			name:     "Trailing carriage return at EOF",
			input:    "END\r",
			expected: []string{"END"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tokens []string
			scanner := bufio.NewScanner(strings.NewReader(tt.input))
			scanner.Split(rn.Splitter)

			for scanner.Scan() {
				tokens = append(tokens, scanner.Text())
			}

			if err := scanner.Err(); err != nil {
				t.Fatalf("Scanner error: %v", err)
			}

			if len(tokens) != len(tt.expected) {
				t.Fatalf("Expected %d tokens, got %d.\nExpected: %q\nGot: %q",
					len(tt.expected), len(tokens), tt.expected, tokens)
			}

			for i, expected := range tt.expected {
				if tokens[i] != expected {
					t.Errorf("Token %d: expected %q, got %q", i, expected, tokens[i])
				}
			}
		})
	}
}

func TestSplitterWaitsForLineFeedAfterCR(t *testing.T) {
	advance, token, err := rn.Splitter([]byte("AOK\r"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advance != 0 || token != nil {
		t.Errorf("expected splitter to request more data, got advance=%d token=%q", advance, token)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected rn.ResponseType
	}{
		{name: "Acknowledgment", input: "AOK", expected: rn.TypeAck},
		{name: "Error", input: "ERR", expected: rn.TypeError},
		{name: "Unknown command", input: "?", expected: rn.TypeError},
		{name: "Command mode entered", input: "CMD", expected: rn.TypeMode},
		{name: "Command mode left", input: "END", expected: rn.TypeMode},
		{name: "Reboot", input: "Reboot!", expected: rn.TypeReboot},
		{name: "Padded acknowledgment", input: " AOK ", expected: rn.TypeAck},
		{name: "Address", input: "0006664A1B2C", expected: rn.TypeData},
		{name: "Connection status", input: "1,0,0", expected: rn.TypeData},
		{name: "Setting", input: "BTA=0006664A1B2C", expected: rn.TypeData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rn.Classify(tt.input)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v for input %q", tt.expected, result, tt.input)
			}
		})
	}
}

func TestCommandBuilders(t *testing.T) {
	if got := rn.RemoteAddress("0006664A1B2C"); got != "SR,0006664A1B2C\n" {
		t.Errorf("RemoteAddress: got %q", got)
	}
	if got := rn.PinCode(rn.DefaultPinCode); got != "SP,c0de\n" {
		t.Errorf("PinCode: got %q", got)
	}
}

func TestParseSettings(t *testing.T) {
	dump := "CMD\r\n***Settings***\r\nBTA=0006664A1B2C\r\nBTName=RN42-1B2C\r\n" +
		"Baudrt(SW4)=115K\r\nMode  =Slav\r\n***ADVANCED Settings***\r\nSrvName= SPP\r\nEND\r\n"

	got := rn.ParseSettings(dump)
	want := []rn.Setting{
		{Key: "BTA", Value: "0006664A1B2C"},
		{Key: "BTName", Value: "RN42-1B2C"},
		{Key: "Baudrt(SW4)", Value: "115K"},
		{Key: "Mode", Value: "Slav"},
		{Key: "SrvName", Value: "SPP"},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d settings, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("setting %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestParseSettingsEmpty(t *testing.T) {
	if got := rn.ParseSettings(""); len(got) != 0 {
		t.Errorf("expected no settings, got %+v", got)
	}
}

package rn

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Splitter is used for tokenizing radio replies. It uses the signature of
// bufio.SplitFunc so it can be directly used with bufio.Scanner.
//
// The radio terminates lines with "\r\n" in command mode but bare "\r" or
// "\n" show up in settings dumps and after a reboot, so any of the three
// ends a token. A CRLF pair is consumed as a single terminator.
//
// When atEOF is true any remaining data is returned as the final token.
func Splitter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, CR+LF); i >= 0 {
		if data[i] == '\r' {
			// Need one more byte to tell CR from CRLF.
			if i+1 == len(data) && !atEOF {
				return 0, nil, nil
			}
			if i+1 < len(data) && data[i+1] == '\n' {
				return i + 2, data[0:i], nil
			}
		}
		return i + 1, data[0:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = Splitter

// Classify identifies the nature of a reply line.
func Classify(line string) ResponseType {
	switch strings.TrimSpace(line) {
	case AOK:
		return TypeAck
	case ERR, Unknown:
		return TypeError
	case CMD, END:
		return TypeMode
	case Reboot:
		return TypeReboot
	default:
		return TypeData
	}
}

// RemoteAddress builds the command that stores the address the radio
// connects to after a reboot.
func RemoteAddress(addr string) string {
	return fmt.Sprintf(cmdRemoteAddress, addr)
}

// PinCode builds the command that sets the pairing code.
func PinCode(pin string) string {
	return fmt.Sprintf(cmdPinCode, pin)
}

// Setting is one "Key=Value" line of a settings dump.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseSettings extracts the Key=Value pairs of a settings dump produced by
// the D and E commands. Section banners ("***Settings***"), echoed commands
// and mode tokens are skipped.
func ParseSettings(dump string) []Setting {
	var settings []Setting

	scanner := bufio.NewScanner(strings.NewReader(dump))
	scanner.Split(Splitter)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || Classify(line) != TypeData {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" || strings.HasPrefix(key, "*") {
			continue
		}
		settings = append(settings, Setting{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return settings
}

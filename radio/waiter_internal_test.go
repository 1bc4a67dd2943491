package radio

import "testing"

func TestMatchers(t *testing.T) {
	tests := []struct {
		token      string
		input      string
		inOrder    bool
		contiguous bool
	}{
		{token: "AOK", input: "AOK", inOrder: true, contiguous: true},
		{token: "AOK", input: "A-O-K", inOrder: true, contiguous: false},
		{token: "AOK", input: "AAAOK", inOrder: true, contiguous: true},
		{token: "AOK", input: "AOAOK", inOrder: true, contiguous: true},
		{token: "AOK", input: "AO", inOrder: false, contiguous: false},
		{token: "Reboot!", input: "RebRebootoot!", inOrder: true, contiguous: false},
		{token: "Reboot!", input: "ReReboot!", inOrder: true, contiguous: true},
		{token: "abab", input: "abaabab", inOrder: true, contiguous: true},
		{token: "1,0,0", input: "1,0,1,0,0", inOrder: true, contiguous: true},
	}

	for _, tt := range tests {
		t.Run(tt.token+"/"+tt.input, func(t *testing.T) {
			in := &inOrderMatcher{token: tt.token}
			co := newContiguousMatcher(tt.token)
			for i := 0; i < len(tt.input); i++ {
				in.feed(tt.input[i])
				co.feed(tt.input[i])
			}
			if in.done() != tt.inOrder {
				t.Errorf("in-order: expected %v, got %v", tt.inOrder, in.done())
			}
			if co.done() != tt.contiguous {
				t.Errorf("contiguous: expected %v, got %v", tt.contiguous, co.done())
			}
		})
	}
}

func TestContiguousFailureTable(t *testing.T) {
	m := newContiguousMatcher("abab")
	want := []int{0, 0, 1, 2}
	for i := range want {
		if m.fail[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, m.fail)
		}
	}
}

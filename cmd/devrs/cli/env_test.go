package cli

import "testing"

func TestHasNamePrefix(t *testing.T) {
	cases := []struct {
		names  []string
		prefix string
		want   bool
	}{
		{[]string{"/devrs-core-env-instance"}, "devrs-core-env-instance", true},
		{[]string{"/devrs-core-env-instance-old"}, "devrs-core-env-instance", true},
		{[]string{"/other"}, "devrs-core-env-instance", false},
		{nil, "devrs-core-env-instance", false},
		{[]string{"/short"}, "devrs-core-env-instance", false},
	}
	for _, tc := range cases {
		if got := hasNamePrefix(tc.names, tc.prefix); got != tc.want {
			t.Errorf("hasNamePrefix(%v, %q) = %v, want %v", tc.names, tc.prefix, got, tc.want)
		}
	}
}

func TestFirstName(t *testing.T) {
	if got := firstName([]string{"/foo"}); got != "foo" {
		t.Errorf("firstName = %q, want %q", got, "foo")
	}
	if got := firstName(nil); got != "" {
		t.Errorf("firstName(nil) = %q, want empty", got)
	}
}

func TestTrimLeadingSlash(t *testing.T) {
	if got := trimLeadingSlash("/foo"); got != "foo" {
		t.Errorf("trimLeadingSlash = %q, want %q", got, "foo")
	}
	if got := trimLeadingSlash("foo"); got != "foo" {
		t.Errorf("trimLeadingSlash = %q, want %q", got, "foo")
	}
}

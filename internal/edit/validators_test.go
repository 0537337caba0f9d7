package edit

import (
	"strings"
	"testing"
)

func TestDiscount(t *testing.T) {
	for _, v := range []string{"0", "50", "100"} {
		if err := Discount(v); err != nil {
			t.Errorf("Discount(%q) should be valid: %v", v, err)
		}
	}
	for _, v := range []string{"-1", "101", "150", "abc", "10%"} {
		if err := Discount(v); err == nil {
			t.Errorf("Discount(%q) should be rejected", v)
		}
	}
}

func TestEmail(t *testing.T) {
	if err := Email(""); err != nil {
		t.Errorf("Empty email clears the field and is valid: %v", err)
	}
	if err := Email("ivanov@example.com"); err != nil {
		t.Errorf("Valid email rejected: %v", err)
	}
	for _, v := range []string{"ivanov", "ivanov@", "@example.com", "a b@example.com", "ivanov@example"} {
		if err := Email(v); err == nil {
			t.Errorf("Email(%q) should be rejected", v)
		}
	}

	long := strings.Repeat("a", 250) + "@b.c"
	if err := Email(long); err == nil {
		t.Error("Over-long email should be rejected")
	}
}

func TestComments(t *testing.T) {
	if err := Comments(strings.Repeat("ё", 1000)); err != nil {
		t.Errorf("1000 runes should be accepted: %v", err)
	}
	if err := Comments(strings.Repeat("ё", 1001)); err == nil {
		t.Error("1001 runes should be rejected")
	}
}

func TestName(t *testing.T) {
	if err := Name("ООО Ромашка"); err != nil {
		t.Errorf("Valid name rejected: %v", err)
	}
	if err := Name(""); err == nil {
		t.Error("Empty name should be rejected")
	}
	if err := Name(strings.Repeat("щ", 256)); err == nil {
		t.Error("Over-long name should be rejected")
	}
}

func TestCirculation(t *testing.T) {
	if err := Circulation("1000"); err != nil {
		t.Errorf("Valid circulation rejected: %v", err)
	}
	for _, v := range []string{"0", "-5", "12.5", "тысяча"} {
		if err := Circulation(v); err == nil {
			t.Errorf("Circulation(%q) should be rejected", v)
		}
	}
}

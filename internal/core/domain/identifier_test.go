package domain

import "testing"

func TestParseExternalIDNumeric(t *testing.T) {
	cases := map[string]int64{
		"1":       1,
		"123456":  123456,
		"2077000": 2077000,
	}
	for input, want := range cases {
		id, ok := ParseExternalID(input)
		if !ok {
			t.Fatalf("ParseExternalID(%q) not recognized", input)
		}
		if int64(id) != want {
			t.Fatalf("ParseExternalID(%q) = %d, want %d", input, id, want)
		}
	}
}

func TestParseExternalIDGalleryURL(t *testing.T) {
	id, ok := ParseExternalID("https://example.org/galleries/whatever-987654.html")
	if !ok {
		t.Fatalf("expected URL form to be recognized")
	}
	if id != 987654 {
		t.Fatalf("expected 987654, got %d", id)
	}
}

func TestParseExternalIDRejectsUnrecognizedInput(t *testing.T) {
	inputs := []string{
		"",
		"abc",
		"https://example.org/galleries/whatever.html",
		"123.htm",
		"12.3",
		"-5",
		"0",
	}
	for _, input := range inputs {
		if id, ok := ParseExternalID(input); ok {
			t.Fatalf("ParseExternalID(%q) unexpectedly returned %d", input, id)
		}
	}
}

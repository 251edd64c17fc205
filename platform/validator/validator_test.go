package validator

import "testing"

type phoneInput struct {
	Phone string `validate:"required,bdphone"`
}

func TestBDPhoneTag(t *testing.T) {
	v := New()

	cases := []struct {
		phone string
		ok    bool
	}{
		{"01711-112222", true},
		{"+880 1711 112222", true},
		{"1711112222", true},
		{"12345", false},
		{"call me", false},
	}

	for _, tc := range cases {
		err := v.Struct(phoneInput{Phone: tc.phone})
		if (err == nil) != tc.ok {
			t.Errorf("phone %q: expected ok=%v, got err=%v", tc.phone, tc.ok, err)
		}
	}
}

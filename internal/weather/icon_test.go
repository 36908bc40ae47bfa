package weather

import "testing"

func TestIconKnownPrefixes(t *testing.T) {
	cases := map[string]string{
		"01d": "fa-sun",
		"02d": "fa-cloud-sun",
		"03d": "fa-cloud",
		"04n": "fa-cloud",
		"09d": "fa-cloud-showers-heavy",
		"10n": "fa-cloud-rain",
		"11d": "fa-bolt",
		"13d": "fa-snowflake",
		"50n": "fa-smog",
	}
	for code, want := range cases {
		if got := Icon(code, true); got != want {
			t.Errorf("Icon(%q, true) = %q, want %q", code, got, want)
		}
	}
}

func TestIconNightVariants(t *testing.T) {
	if got := Icon("01n", false); got != "fa-moon" {
		t.Errorf("Icon(01n, false) = %q, want fa-moon", got)
	}
	if got := Icon("02n", false); got != "fa-cloud-moon" {
		t.Errorf("Icon(02n, false) = %q, want fa-cloud-moon", got)
	}
	// Prefixes without a night variant ignore the flag.
	if got := Icon("10n", false); got != "fa-cloud-rain" {
		t.Errorf("Icon(10n, false) = %q, want fa-cloud-rain", got)
	}
}

func TestIconFallback(t *testing.T) {
	for _, code := range []string{"", "1", "99d", "xx", "0"} {
		if got := Icon(code, true); got != IconFallback {
			t.Errorf("Icon(%q) = %q, want %q", code, got, IconFallback)
		}
	}
}

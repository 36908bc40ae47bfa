package weather

// IconFallback is used for codes the table does not know.
const IconFallback = "fa-cloud"

var icons = map[string]string{
	"03": "fa-cloud",
	"04": "fa-cloud",
	"09": "fa-cloud-showers-heavy",
	"10": "fa-cloud-rain",
	"11": "fa-bolt",
	"13": "fa-snowflake",
	"50": "fa-smog",
}

// Icon maps an OpenWeatherMap condition code (e.g. "10n") to a FontAwesome
// icon class. Only the first two characters are significant.
func Icon(code string, isDay bool) string {
	if len(code) < 2 {
		return IconFallback
	}

	switch prefix := code[:2]; prefix {
	case "01":
		if isDay {
			return "fa-sun"
		}
		return "fa-moon"
	case "02":
		if isDay {
			return "fa-cloud-sun"
		}
		return "fa-cloud-moon"
	default:
		if icon, ok := icons[prefix]; ok {
			return icon
		}
		return IconFallback
	}
}

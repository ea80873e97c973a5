package domain

// DefaultCurrency applies to countries without a mapping.
const DefaultCurrency = "USD"

var countryCurrency = map[string]string{
	// North America
	"US": "USD", "CA": "CAD", "MX": "MXN",
	// Central America and Caribbean
	"GT": "GTQ", "BZ": "USD", "SV": "USD", "HN": "USD", "NI": "USD", "CR": "CRC", "PA": "PAB",
	"CU": "USD", "JM": "JMD", "HT": "USD", "DO": "DOP", "PR": "USD", "TT": "TTD",
	"BB": "BBD", "BS": "BSD", "LC": "USD", "GD": "USD", "VC": "USD", "AG": "USD", "DM": "USD", "KN": "USD",
	// South America
	"BR": "BRL", "AR": "ARS", "CO": "COP", "PE": "PEN", "VE": "VES", "CL": "CLP",
	"EC": "USD", "BO": "USD", "PY": "USD", "UY": "UYU", "GY": "USD", "SR": "USD",
	// Western Europe
	"GB": "GBP", "IE": "EUR", "FR": "EUR", "DE": "EUR", "NL": "EUR", "BE": "EUR",
	"LU": "EUR", "CH": "CHF", "AT": "EUR", "LI": "CHF",
	// Southern Europe
	"ES": "EUR", "PT": "EUR", "IT": "EUR", "GR": "EUR", "MT": "EUR", "CY": "EUR",
	"AD": "EUR", "SM": "EUR", "MC": "EUR", "VA": "EUR",
	// Northern Europe
	"SE": "SEK", "NO": "NOK", "DK": "DKK", "FI": "EUR", "IS": "ISK",
	"EE": "EUR", "LV": "EUR", "LT": "EUR",
	// Eastern Europe
	"PL": "PLN", "CZ": "CZK", "SK": "EUR", "HU": "HUF", "RO": "RON", "BG": "BGN",
	"UA": "UAH", "BY": "USD", "MD": "USD", "RU": "RUB",
	// Balkans
	"HR": "EUR", "SI": "EUR", "RS": "RSD", "BA": "USD", "ME": "EUR", "MK": "EUR", "AL": "USD", "XK": "EUR",
	// Middle East
	"AE": "AED", "SA": "SAR", "QA": "QAR", "KW": "KWD", "BH": "BHD", "OM": "OMR",
	"JO": "JOD", "LB": "LBP", "SY": "SYP", "IQ": "IQD", "IR": "IRR", "YE": "YER",
	"IL": "ILS", "PS": "ILS", "TR": "TRY",
	// Central Asia
	"KZ": "KZT", "UZ": "UZS", "TM": "TMT", "TJ": "TJS", "KG": "KGS", "AF": "AFN",
	// South Asia
	"IN": "INR", "PK": "PKR", "BD": "BDT", "LK": "LKR", "NP": "NPR", "BT": "INR", "MV": "USD",
	// Southeast Asia
	"SG": "SGD", "MY": "MYR", "TH": "THB", "ID": "IDR", "PH": "PHP", "VN": "VND",
	"MM": "MMK", "KH": "KHR", "LA": "LAK", "BN": "BND", "TL": "USD",
	// East Asia
	"CN": "CNY", "JP": "JPY", "KR": "KRW", "TW": "TWD", "HK": "HKD", "MO": "MOP", "MN": "MNT",
	// Oceania
	"AU": "AUD", "NZ": "NZD", "FJ": "FJD", "PG": "PGK", "WS": "WST", "TO": "TOP",
	"VU": "VUV", "SB": "SBD", "NC": "XPF", "PF": "XPF", "GU": "USD",
	// North Africa
	"EG": "EGP", "MA": "MAD", "DZ": "DZD", "TN": "TND", "LY": "USD", "SD": "USD",
	// West Africa
	"NG": "NGN", "GH": "GHS", "SN": "XOF", "CI": "XOF", "ML": "XOF", "BF": "XOF",
	"NE": "XOF", "GN": "USD", "BJ": "XOF", "TG": "XOF", "SL": "USD", "LR": "USD",
	"MR": "USD", "GM": "USD", "GW": "XOF", "CV": "USD",
	// East Africa
	"KE": "KES", "TZ": "TZS", "UG": "UGX", "ET": "ETB", "RW": "RWF", "BI": "USD",
	"SO": "USD", "DJ": "USD", "ER": "USD", "SS": "USD", "MU": "MUR", "SC": "USD",
	"MG": "USD", "KM": "USD", "RE": "EUR",
	// Central Africa
	"CD": "USD", "CG": "XAF", "CF": "XAF", "CM": "XAF", "TD": "XAF", "GA": "XAF",
	"GQ": "XAF", "ST": "USD", "AO": "USD",
	// Southern Africa
	"ZA": "ZAR", "ZW": "USD", "ZM": "USD", "BW": "USD", "NA": "ZAR", "MZ": "USD",
	"MW": "USD", "SZ": "ZAR", "LS": "ZAR",
	// Caucasus
	"GE": "GEL", "AM": "AMD", "AZ": "AZN",
}

// CurrencyForCountry returns the ISO 4217 currency for an ISO 3166 country
// code.
func CurrencyForCountry(country string) string {
	if c, ok := countryCurrency[country]; ok {
		return c
	}
	return DefaultCurrency
}

// PreferredCurrencies returns the account currency followed by USD, EUR and
// GBP, without duplicates.
func PreferredCurrencies(currency string) []string {
	out := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, c := range []string{currency, "USD", "EUR", "GBP"} {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

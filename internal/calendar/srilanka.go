package calendar

import "time"

// Sri Lankan public and mercantile holidays. Poya and Islamic dates follow the
// lunar calendar and are only known for the years listed below.
var (
	lkPublic = Annual{
		{time.February, 4, "Independence Day"},
		{time.May, 1, "May Day"},
		{time.December, 25, "Christmas Day"},
		{time.December, 31, "Special Bank Holiday"},
	}

	lkMercantile = Annual{
		{time.January, 15, "Tamil Thai Pongal Day"},
		{time.April, 13, "Sinhala and Tamil New Year's Eve"},
		{time.April, 14, "Sinhala and Tamil New Year Day"},
	}

	lkPoya = YearTable{
		2024: {
			{time.January, 25, "Duruthu Poya"},
			{time.February, 23, "Navam Poya"},
			{time.March, 24, "Medin Poya"},
			{time.April, 23, "Bak Poya"},
			{time.May, 23, "Vesak Poya"},
			{time.June, 21, "Poson Poya"},
			{time.July, 20, "Esala Poya"},
			{time.August, 19, "Nikini Poya"},
			{time.September, 17, "Binara Poya"},
			{time.October, 17, "Vap Poya"},
			{time.November, 15, "Il Poya"},
			{time.December, 14, "Unduvap Poya"},
		},
		2025: {
			{time.January, 13, "Duruthu Poya"},
			{time.February, 12, "Navam Poya"},
			{time.March, 13, "Medin Poya"},
			{time.April, 12, "Bak Poya"},
			{time.May, 12, "Vesak Poya"},
			{time.June, 10, "Poson Poya"},
			{time.July, 10, "Esala Poya"},
			{time.August, 8, "Nikini Poya"},
			{time.September, 7, "Binara Poya"},
			{time.October, 6, "Vap Poya"},
			{time.November, 5, "Il Poya"},
			{time.December, 4, "Unduvap Poya"},
		},
		2026: {
			{time.January, 3, "Duruthu Poya"},
			{time.February, 1, "Navam Poya"},
			{time.March, 2, "Medin Poya"},
			{time.April, 1, "Bak Poya"},
			{time.May, 1, "Vesak Poya"},
			{time.May, 30, "Poson Poya"},
			{time.June, 29, "Esala Poya"},
			{time.July, 29, "Nikini Poya"},
			{time.August, 27, "Binara Poya"},
			{time.September, 26, "Vap Poya"},
			{time.October, 25, "Il Poya"},
			{time.November, 24, "Unduvap Poya"},
			{time.December, 23, "Unduvap Poya"},
		},
	}

	lkIslamic = YearTable{
		2024: {{time.September, 16, "Milad-un-Nabi"}},
		2025: {{time.September, 5, "Milad-un-Nabi"}},
		2026: {{time.August, 26, "Milad-un-Nabi"}},
	}
)

// SriLanka returns the built-in Sri Lankan holiday calendar.
func SriLanka() HolidaySource {
	return AnyOf(lkPublic, lkMercantile, lkPoya, lkIslamic)
}

// SriLankaLunarYears lists the years for which lunar holidays are known.
func SriLankaLunarYears() []int {
	return lkPoya.Years()
}

// Builtin resolves a built-in calendar by name. "none" and "" select no
// built-in holidays.
func Builtin(name string) (HolidaySource, bool) {
	switch name {
	case "lk", "sri_lanka":
		return SriLanka(), true
	case "", "none":
		return nil, true
	}
	return nil, false
}

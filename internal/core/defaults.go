package core

// FallbackCategoryID is where imported transactions with no resolvable
// category land. It matches the seeded "Other" category.
const FallbackCategoryID = "c8"

const (
	DefaultLanguage = "en"
	DefaultCurrency = "USD"
)

// DefaultCategories is the seed set installed for a fresh user and
// substituted whenever an import carries no categories at all.
func DefaultCategories() []Category {
	return []Category{
		{ID: "c1", Name: "Food", Icon: "🍔", Color: "orange"},
		{ID: "c2", Name: "Transport", Icon: "🚗", Color: "blue"},
		{ID: "c3", Name: "Shopping", Icon: "🛍️", Color: "pink"},
		{ID: "c4", Name: "Housing", Icon: "🏠", Color: "green"},
		{ID: "c5", Name: "Tech", Icon: "💻", Color: "purple"},
		{ID: "c6", Name: "Health", Icon: "💊", Color: "red"},
		{ID: "c7", Name: "Entertainment", Icon: "🎬", Color: "yellow"},
		{ID: "c8", Name: "Other", Icon: "📦", Color: "slate"},
	}
}

// DefaultMembers is the seed household.
func DefaultMembers() []Member {
	return []Member{
		{ID: "m1", Name: "Me", Avatar: "🧑"},
		{ID: "m2", Name: "Partner", Avatar: "👩"},
		{ID: "m3", Name: "Kid", Avatar: "👶"},
		{ID: "m4", Name: "Home", Avatar: "🏠"},
	}
}

// DefaultReflectionTags mirror the legacy fixed flags so old boolean data
// still maps onto the tag model by name.
func DefaultReflectionTags() []ReflectionTag {
	return []ReflectionTag{
		{ID: "rt1", Name: "Regret", Color: "red", Icon: "😩"},
		{ID: "rt2", Name: "Waste", Color: "orange", Icon: "🗑️"},
		{ID: "rt3", Name: "Save", Color: "green", Icon: "💰"},
	}
}

// DefaultSettings returns the global settings fallback.
func DefaultSettings() AppSettings {
	return AppSettings{Language: DefaultLanguage, Currency: DefaultCurrency}
}

var supportedLanguages = map[string]struct{}{
	"en": {},
	"zh": {},
}

var supportedCurrencies = map[string]struct{}{
	"USD": {},
	"CNY": {},
	"EUR": {},
	"JPY": {},
	"GBP": {},
}

func SupportedLanguage(code string) bool {
	_, ok := supportedLanguages[code]
	return ok
}

func SupportedCurrency(code string) bool {
	_, ok := supportedCurrencies[code]
	return ok
}

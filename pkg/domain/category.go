package domain

// Category is a delivery food category.
type Category struct {
	ID    string
	Label string
	Emoji string
}

// Categories in display order. The server may send ids outside this list;
// those are shown as-is.
var Categories = []Category{
	{ID: "korean", Label: "한식", Emoji: "🍚"},
	{ID: "chinese", Label: "중식", Emoji: "🥟"},
	{ID: "japanese", Label: "일식", Emoji: "🍣"},
	{ID: "western", Label: "양식", Emoji: "🍝"},
	{ID: "chicken", Label: "치킨", Emoji: "🍗"},
	{ID: "pizza", Label: "피자", Emoji: "🍕"},
	{ID: "burger", Label: "버거", Emoji: "🍔"},
	{ID: "snack", Label: "분식", Emoji: "🍢"},
	{ID: "dessert", Label: "디저트", Emoji: "🍰"},
	{ID: "etc", Label: "기타", Emoji: "🍽"},
}

// ValidCategory returns true if id is a known category.
func ValidCategory(id string) bool {
	_, ok := LookupCategory(id)
	return ok
}

// LookupCategory finds a category by id.
func LookupCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryLabel returns the display label for id, or id itself when unknown.
func CategoryLabel(id string) string {
	if c, ok := LookupCategory(id); ok {
		return c.Label
	}
	return id
}

package core

// CategoryKey is the stable identity of a category. Labels are display
// data and never used as keys.
type CategoryKey string

type Category struct {
	Key   CategoryKey
	Kind  Kind
	Name  string // English name
	Label string // Thai display label
	Icon  string
	Color string
}

var incomeCategories = []Category{
	{Key: "salary", Kind: Income, Name: "Salary", Label: "เงินเดือน", Icon: "wallet", Color: "#4ECDC4"},
	{Key: "bonus", Kind: Income, Name: "Bonus", Label: "โบนัส", Icon: "gift", Color: "#45B7D1"},
	{Key: "sales", Kind: Income, Name: "Sales", Label: "ขายของ", Icon: "storefront", Color: "#96CEB4"},
	{Key: "investment", Kind: Income, Name: "Investment", Label: "ลงทุน", Icon: "trending-up", Color: "#FECA57"},
	{Key: "other_income", Kind: Income, Name: "Other", Label: "อื่นๆ", Icon: "cash", Color: "#FF9FF3"},
}

var expenseCategories = []Category{
	{Key: "food", Kind: Expense, Name: "Food & Drinks", Label: "อาหาร & เครื่องดื่ม", Icon: "restaurant", Color: "#FF6B6B"},
	{Key: "transport", Kind: Expense, Name: "Transport", Label: "คมนาคม", Icon: "car", Color: "#45B7D1"},
	{Key: "shopping", Kind: Expense, Name: "Shopping", Label: "ช้อปปิ้ง", Icon: "bag", Color: "#96CEB4"},
	{Key: "entertainment", Kind: Expense, Name: "Entertainment", Label: "บันเทิง", Icon: "game-controller", Color: "#FECA57"},
	{Key: "health", Kind: Expense, Name: "Health", Label: "สุขภาพ", Icon: "medical", Color: "#FF9FF3"},
	{Key: "education", Kind: Expense, Name: "Education", Label: "การศึกษา", Icon: "school", Color: "#54A0FF"},
	{Key: "bills", Kind: Expense, Name: "Bills", Label: "บิลประจำ", Icon: "receipt", Color: "#FF6348"},
	{Key: "other_expense", Kind: Expense, Name: "Other", Label: "อื่นๆ", Icon: "ellipsis-horizontal", Color: "#778CA3"},
}

var catalogIndex = func() map[Kind]map[CategoryKey]Category {
	idx := map[Kind]map[CategoryKey]Category{
		Income:  make(map[CategoryKey]Category, len(incomeCategories)),
		Expense: make(map[CategoryKey]Category, len(expenseCategories)),
	}
	for _, c := range incomeCategories {
		idx[Income][c.Key] = c
	}
	for _, c := range expenseCategories {
		idx[Expense][c.Key] = c
	}
	return idx
}()

// Categories returns the catalog for kind in display order. The slice is a
// copy.
func Categories(kind Kind) []Category {
	var src []Category
	switch kind {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	default:
		return nil
	}
	return append([]Category(nil), src...)
}

// LookupCategory finds key in the catalog of kind.
func LookupCategory(kind Kind, key CategoryKey) (Category, bool) {
	c, ok := catalogIndex[kind][key]
	return c, ok
}

// CategoryOf returns the catalog record for key, or a bare record carrying
// the key as its name when the key is not in the catalog.
func CategoryOf(kind Kind, key CategoryKey) Category {
	if c, ok := LookupCategory(kind, key); ok {
		return c
	}
	return Category{Key: key, Kind: kind, Name: string(key), Label: string(key)}
}

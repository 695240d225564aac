package model

var (
	// TagCategoryTech marks general software engineering skill tags
	TagCategoryTech = "tech"
	// TagCategoryNonTech marks soft-skill and business tags
	TagCategoryNonTech = "non_tech"
	// TagCategoryWeb3 marks blockchain related tags
	TagCategoryWeb3 = "web3"
	// TagCategoryQuant marks quantitative finance tags
	TagCategoryQuant = "quant"
	// TagCategoryAI marks machine learning tags
	TagCategoryAI = "ai"
	// TagCategoryOther is the fallback bucket
	TagCategoryOther = "other"
)

// TagCategories is the closed set accepted by the admin tag editor.
// The category drives a fixed color mapping on the client side.
var TagCategories = []string{
	TagCategoryTech,
	TagCategoryNonTech,
	TagCategoryWeb3,
	TagCategoryQuant,
	TagCategoryAI,
	TagCategoryOther,
}

// Tag is gorm model for an AI-assigned candidate label, shared across
// candidates through the candidate_tags join table.
type Tag struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	TagName  string `gorm:"type:text;uniqueIndex;not null" json:"tag_name"`
	Category string `gorm:"type:text;default:'other'" json:"category"`
}

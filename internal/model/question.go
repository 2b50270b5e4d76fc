package model

// Question is immutable once snapshotted into a room's questions list.
// Answer is an index into Options.
type Question struct {
	Text    string   `json:"text" bson:"text"`
	Options []string `json:"options" bson:"options"`
	Answer  int      `json:"answer" bson:"answer"`
}

// IsCorrect reports whether the selected option index is the stored answer.
func (q *Question) IsCorrect(option int) bool {
	return option >= 0 && option < len(q.Options) && option == q.Answer
}

// CatalogQuestion is a catalog record as stored in MongoDB: a question plus
// its category and 1-based position within that category.
type CatalogQuestion struct {
	Category string `json:"category" bson:"category"`
	Index    int    `json:"index" bson:"index"`
	Question `bson:",inline"`
}

// Category is a catalog category header carrying the record count used by
// the sampling question source.
type Category struct {
	Key            string `json:"key" bson:"_id"`
	TotalQuestions int    `json:"totalQuestions" bson:"totalQuestions"`
}

package kb

import "time"

// Category classifies a knowledge-base chunk by the kind of medical
// content it carries. Typed to keep loose strings out of the code.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategorySymptoms   Category = "symptoms"
	CategoryTreatment  Category = "treatment"
	CategoryPrevention Category = "prevention"
	CategoryMedication Category = "medication"
)

// DocChunk is one logical piece of a medical reference document
// (a condition overview, a symptom list, a dosage table etc).
type DocChunk struct {
	ID        int64     `json:"id"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SourceURL string    `json:"sourceUrl"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

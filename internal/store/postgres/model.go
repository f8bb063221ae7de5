package postgres

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sellershut/categories/internal/category"
)

// categoryRow is the GORM row mapping for the categories table. It mirrors
// category.Category but stores SubCategories as a delimited string since
// the store has no referential-integrity enforcement over it (per the data
// model's invariants, it is just an ordered sequence of ids).
type categoryRow struct {
	ID            string `gorm:"column:id;primaryKey"`
	Name          string `gorm:"column:name"`
	SubCategories string `gorm:"column:sub_categories"`
	ImageURL      *string
	ParentID      *string    `gorm:"column:parent_id;index"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (categoryRow) TableName() string { return "categories" }

const subCategorySeparator = ","

func toRow(c category.Category) categoryRow {
	return categoryRow{
		ID:            c.ID,
		Name:          c.Name,
		SubCategories: strings.Join(c.SubCategories, subCategorySeparator),
		ImageURL:      c.ImageURL,
		ParentID:      c.ParentID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (r categoryRow) toDomain() category.Category {
	var subs []string
	if r.SubCategories != "" {
		subs = strings.Split(r.SubCategories, subCategorySeparator)
	}
	return category.Category{
		ID:            r.ID,
		Name:          r.Name,
		SubCategories: subs,
		ImageURL:      r.ImageURL,
		ParentID:      r.ParentID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// AutoMigrate creates/updates the categories table. Called once at process
// bootstrap, mirroring the teacher's table-creation-on-init convention
// (forbearing-gst/database/helper.InitDatabase), narrowed to a single
// explicit call since this service has exactly one table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&categoryRow{})
}

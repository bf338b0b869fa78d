package models

// Material types as stored by the row backend.
const (
	MaterialTypeLecture    = "lecture"
	MaterialTypeBook       = "book"
	MaterialTypeAssignment = "assignment"
	MaterialTypeVideo      = "video"
)

// MaterialCategoryAll is the catch-all filter label shown by the library view.
const MaterialCategoryAll = "الكل"

// MaterialCategories maps the Arabic filter labels to stored material types.
var MaterialCategories = map[string]string{
	"المحاضرات": MaterialTypeLecture,
	"الكتب":     MaterialTypeBook,
	"التكليفات": MaterialTypeAssignment,
	"فيديوهات":  MaterialTypeVideo,
}

// Material is one library resource, visible to a (department, level) audience
// or to everyone when either scope column is null. A missing URL disables the
// view/download actions.
type Material struct {
	ID     string  `db:"id" json:"id"`
	Title  string  `db:"title" json:"title"`
	Type   string  `db:"type" json:"type"`
	Format string  `db:"format" json:"format"`
	Size   string  `db:"size" json:"size"`
	Date   string  `db:"date" json:"date"`
	URL    *string `db:"url" json:"url,omitempty"`
}

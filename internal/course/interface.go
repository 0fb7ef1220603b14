package course

// Store defines the read side the scoring engine needs from the course
// catalog, plus the upserts used by the seeder and catalog endpoints.
type Store interface {
	UpsertCourse(course Course, holes []Hole, tees []Tee) error
	GetCourse(courseID string) (*Course, error)
	GetHoles(courseID string) ([]Hole, error)
	GetTee(teeID string) (*Tee, error)
	GetAllCourses() ([]Course, error)
}

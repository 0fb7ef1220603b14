package course

import "sync"

// MockStore is a mock implementation of the course Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertCourseFunc  func(course Course, holes []Hole, tees []Tee) error
	GetCourseFunc     func(courseID string) (*Course, error)
	GetHolesFunc      func(courseID string) ([]Hole, error)
	GetTeeFunc        func(teeID string) (*Tee, error)
	GetAllCoursesFunc func() ([]Course, error)

	// Call records
	GetHolesCalls []string
	GetTeeCalls   []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertCourse(course Course, holes []Hole, tees []Tee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertCourseFunc != nil {
		return m.UpsertCourseFunc(course, holes, tees)
	}
	return nil
}

func (m *MockStore) GetCourse(courseID string) (*Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetCourseFunc != nil {
		return m.GetCourseFunc(courseID)
	}
	return &Course{ID: courseID}, nil
}

func (m *MockStore) GetHoles(courseID string) ([]Hole, error) {
	m.mu.Lock()
	m.GetHolesCalls = append(m.GetHolesCalls, courseID)
	m.mu.Unlock()
	if m.GetHolesFunc != nil {
		return m.GetHolesFunc(courseID)
	}
	return nil, nil
}

func (m *MockStore) GetTee(teeID string) (*Tee, error) {
	m.mu.Lock()
	m.GetTeeCalls = append(m.GetTeeCalls, teeID)
	m.mu.Unlock()
	if m.GetTeeFunc != nil {
		return m.GetTeeFunc(teeID)
	}
	return &Tee{ID: teeID}, nil
}

func (m *MockStore) GetAllCourses() ([]Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllCoursesFunc != nil {
		return m.GetAllCoursesFunc()
	}
	return nil, nil
}

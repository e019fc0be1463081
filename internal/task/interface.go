package task

// Persister loads and saves the whole task list.
//
// Load never fails: unreadable or malformed storage degrades to fewer (or zero) tasks.
// Save rewrites the complete list.
type Persister interface {
	Load() []Task
	Save(tasks []Task) error
}

package models

// TaskView is a task with its tags resolved to full objects, the shape
// the board view endpoint returns.
type TaskView struct {
	Task
	Tags []Tag `json:"tags"`
}

type ColumnView struct {
	Column
	Tasks []TaskView `json:"tasks"`
}

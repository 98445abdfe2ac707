package constants

type TaskCategory string

type TaskPriority string

const (
	CategoryWork     TaskCategory = "Work"
	CategoryPersonal TaskCategory = "Personal"
	CategoryStudy    TaskCategory = "Study"
	CategoryOthers   TaskCategory = "Others"
)

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// DueDateLayout is the wire and storage format for task due dates.
// Due dates are calendar dates with no time component.
const DueDateLayout = "2006-01-02"

func ValidCategory(c TaskCategory) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryOthers:
		return true
	}
	return false
}

func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

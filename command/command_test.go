package command

import "testing"

func TestTaskTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		taskType TaskType
		expected string
	}{
		{"Stamp", TaskTypeStamp, "stamp"},
		{"Jump", TaskTypeJump, "jump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.taskType) != tt.expected {
				t.Errorf("%s = %s; want %s", tt.name, string(tt.taskType), tt.expected)
			}
		})
	}
}

func TestTaskTypeUniqueness(t *testing.T) {
	seen := make(map[TaskType]bool)
	for _, taskType := range []TaskType{TaskTypeStamp, TaskTypeJump} {
		if seen[taskType] {
			t.Errorf("duplicate task type: %s", taskType)
		}
		seen[taskType] = true
	}
}

package domain

import "strings"

// TaskType classifies what a generation request fundamentally asks for.
type TaskType string

const (
	TaskTextGeneration  TaskType = "text_generation"
	TaskImageGeneration TaskType = "image_generation"
	TaskVideoGeneration TaskType = "video_generation"
	TaskAnalysis        TaskType = "analysis"
	TaskCoding          TaskType = "coding"
)

// ValidTaskType reports whether raw names a known task type.
func ValidTaskType(raw string) bool {
	switch TaskType(raw) {
	case TaskTextGeneration, TaskImageGeneration, TaskVideoGeneration, TaskAnalysis, TaskCoding:
		return true
	}
	return false
}

// ContentStyle is a descriptive style tag. The vocabulary below is the
// working set; unknown values are tolerated so new styles can be introduced
// without a type change.
type ContentStyle string

const (
	StyleProfessional ContentStyle = "professional"
	StyleCreative     ContentStyle = "creative"
	StyleTechnical    ContentStyle = "technical"
	StyleCasual       ContentStyle = "casual"
	StyleCinematic    ContentStyle = "cinematic"
	StyleInfographic  ContentStyle = "infographic"
)

// Complexity tiers a task for selection purposes.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ValidComplexity reports whether raw names a known complexity tier.
func ValidComplexity(raw string) bool {
	switch Complexity(raw) {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}

// TaskDescriptor is the normalized description of one generation sub-task.
// Instances are always fully populated; when classification fails the
// deterministic default below is substituted instead.
type TaskDescriptor struct {
	Type         TaskType     `json:"task_type"`
	Style        ContentStyle `json:"content_style"`
	Complexity   Complexity   `json:"complexity"`
	Requirements []string     `json:"specific_requirements"`
}

// DefaultTaskDescriptor is the substitute used whenever automatic
// classification cannot produce a trustworthy descriptor.
func DefaultTaskDescriptor() TaskDescriptor {
	return TaskDescriptor{
		Type:       TaskTextGeneration,
		Style:      StyleProfessional,
		Complexity: ComplexityMedium,
	}
}

// Normalize lowercases enum fields and fills gaps from the default
// descriptor so a descriptor is never partially populated.
func (t *TaskDescriptor) Normalize() {
	def := DefaultTaskDescriptor()
	t.Type = TaskType(strings.ToLower(strings.TrimSpace(string(t.Type))))
	t.Style = ContentStyle(strings.ToLower(strings.TrimSpace(string(t.Style))))
	t.Complexity = Complexity(strings.ToLower(strings.TrimSpace(string(t.Complexity))))
	if !ValidTaskType(string(t.Type)) {
		t.Type = def.Type
	}
	if t.Style == "" {
		t.Style = def.Style
	}
	if !ValidComplexity(string(t.Complexity)) {
		t.Complexity = def.Complexity
	}
}

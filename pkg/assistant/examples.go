package assistant

// ExampleQuestions are preset suggestions surfaced by the UI adapters.
// A selected suggestion goes through the exact same Ask path as typed text.
func ExampleQuestions() []string {
	return []string{
		"What are the severity levels?",
		"What is the update cadence for Sev2 incidents?",
		"How do we handle NodeNotReady incidents?",
		"What tools are used for incident detection?",
		"What should be documented when logging an incident?",
	}
}

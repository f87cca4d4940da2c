package pipeline

// Status is the outcome of one topic or one (topic, kind) network.
type Status string

const (
	// StatusWritten means a network file was written.
	StatusWritten Status = "written"
	// StatusEmpty means the query returned no links and nothing was written.
	StatusEmpty Status = "empty"
	// StatusFailed means the network or topic could not be produced.
	StatusFailed Status = "failed"
	// StatusSkipped means the topic or kind was not attempted.
	StatusSkipped Status = "skipped"
	// StatusDone means a topic was processed; see its kinds for details.
	StatusDone Status = "done"
)

// KindResult is the outcome of one network kind of a topic.
type KindResult struct {
	Kind   string `json:"kind"`
	Status Status `json:"status"`
	Path   string `json:"path,omitempty"`
	Items  int    `json:"items"`
	Links  int    `json:"links"`
	Error  string `json:"error,omitempty"`
}

// TopicResult is the outcome of one topic file.
type TopicResult struct {
	Topic  string       `json:"topic"`
	File   string       `json:"file"`
	Status Status       `json:"status"`
	Kinds  []KindResult `json:"kinds,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Topics []TopicResult `json:"topics"`
}

// Failed returns true if any topic or kind failed or was skipped because
// of an error.
func (r *Report) Failed() bool {
	for _, t := range r.Topics {
		if t.Error != "" {
			return true
		}
		for _, k := range t.Kinds {
			if k.Status == StatusFailed || k.Error != "" {
				return true
			}
		}
	}
	return false
}

// Changed returns true if any network file was written.
func (r *Report) Changed() bool {
	for _, t := range r.Topics {
		for _, k := range t.Kinds {
			if k.Status == StatusWritten {
				return true
			}
		}
	}
	return false
}

// Counts returns the number of kind results per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, t := range r.Topics {
		for _, k := range t.Kinds {
			counts[k.Status]++
		}
	}
	return counts
}

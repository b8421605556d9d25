package model

type Outcome int

const (
	Succeeded Outcome = iota
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what happened to a single source image.
type Result struct {
	Source  string
	Dest    string
	Outcome Outcome
	Err     error
}

type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

func (s *Summary) Add(r Result) {
	s.Total++
	switch r.Outcome {
	case Succeeded:
		s.Succeeded++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}

// ColorizeResponse is the JSON body returned by the colorize endpoint.
type ColorizeResponse struct {
	ID        string `json:"id,omitempty"`
	OutputURL string `json:"output_url"`
}

// Package pipeline holds the state of one learner run and enforces the
// order of its stages.
package pipeline

import (
	"encoding/json"

	"github.com/abhisek/learnify/internal/artifacts"
	"github.com/abhisek/learnify/internal/coaching"
	"github.com/abhisek/learnify/internal/evaluation"
	"github.com/abhisek/learnify/internal/taxonomy"
)

// Stage is the furthest point a run has reached.
type Stage string

const (
	StageNew         Stage = "new"
	StageIngested    Stage = "ingested"
	StageExpanded    Stage = "expanded"
	StageAnswered    Stage = "answered"
	StageScored      Stage = "scored"
	StageRecommended Stage = "recommended"
)

// State is everything a run knows. A stage output field is set exactly when
// its stage last succeeded; clearing it means the stage must run again.
type State struct {
	RunID      string           `json:"run_id"`
	SourceName string           `json:"source_name,omitempty"`
	SourceText string           `json:"source_text,omitempty"`
	Language   Language         `json:"language"`
	Audience   coaching.Audience `json:"audience"`
	Weights    taxonomy.Weights `json:"weights"`

	Questions       []taxonomy.TopicQuestionSet `json:"questions,omitempty"`
	Answers         *taxonomy.AnswerSheet       `json:"answers,omitempty"`
	Structured      *taxonomy.Grouping          `json:"structured,omitempty"`
	Scored          *taxonomy.Grouping          `json:"scored,omitempty"`
	Recommendations string                      `json:"recommendations,omitempty"`

	// Evaluation is derived from Scored and Weights and is not saved.
	Evaluation *evaluation.Evaluation `json:"-"`

	// Artifacts maps each kind to the most recent file written for it.
	Artifacts map[artifacts.Kind]string `json:"artifacts,omitempty"`
}

// Stage reports the furthest completed stage.
func (s *State) Stage() Stage {
	switch {
	case s.Recommendations != "":
		return StageRecommended
	case s.Scored != nil:
		return StageScored
	case s.Answers != nil:
		return StageAnswered
	case s.Questions != nil:
		return StageExpanded
	case s.SourceText != "":
		return StageIngested
	default:
		return StageNew
	}
}

// Composite returns the composite score, or nil before scoring.
func (s *State) Composite() *float64 {
	if s.Evaluation == nil {
		return nil
	}
	c := s.Evaluation.Composite
	return &c
}

// MarshalSnapshot encodes the state for the run index.
func (s *State) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes a saved state and recomputes its evaluation.
func UnmarshalSnapshot(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Weights == nil {
		s.Weights = taxonomy.UniformWeights()
	}
	if s.Scored != nil {
		s.Evaluation = evaluation.Evaluate(s.Scored, s.Weights)
	}
	return &s, nil
}

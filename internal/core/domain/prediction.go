package domain

import "time"

type Medicine struct {
	Name        string `json:"name"`
	GenericName string `json:"generic_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// PredictionResult is the analysis returned by the inference endpoint.
// Immutable once received; display shaping happens in pure derivations
// below, never by mutating the result.
type PredictionResult struct {
	ID                  int        `json:"id,omitempty"`
	PredictedCancerType string     `json:"predicted_cancer_type"`
	ConfidenceScore     float64    `json:"confidence_score"`
	Symptoms            string     `json:"symptoms,omitempty"`
	Recommendations     string     `json:"recommendations,omitempty"`
	Medicines           []Medicine `json:"medicines,omitempty"`
}

// PredictionRecord is one history entry from the predictions list endpoint.
type PredictionRecord struct {
	ID                  int       `json:"id"`
	Image               string    `json:"image,omitempty"`
	PredictedCancerType string    `json:"predicted_cancer_type"`
	ConfidenceScore     float64   `json:"confidence_score"`
	Symptoms            string    `json:"symptoms,omitempty"`
	Recommendations     string    `json:"recommendations,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// TierForConfidence buckets a confidence score for presentation.
func TierForConfidence(score float64) ConfidenceTier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

type ConditionSeverity string

const (
	SeverityDanger  ConditionSeverity = "danger"
	SeverityWarning ConditionSeverity = "warning"
	SeverityBenign  ConditionSeverity = "benign"
	SeverityNotable ConditionSeverity = "notable"
	SeverityUnknown ConditionSeverity = "unknown"
)

var conditionSeverities = map[string]ConditionSeverity{
	"melanoma":                SeverityDanger,
	"basal_cell_carcinoma":    SeverityWarning,
	"squamous_cell_carcinoma": SeverityWarning,
	"actinic_keratosis":       SeverityWarning,
	"benign":                  SeverityBenign,
	"dermatofibroma":          SeverityBenign,
	"vascular_lesion":         SeverityNotable,
}

// SeverityForCondition classifies a predicted condition for presentation.
func SeverityForCondition(condition string) ConditionSeverity {
	if severity, ok := conditionSeverities[condition]; ok {
		return severity
	}
	return SeverityUnknown
}

const (
	displayMedicineLimit    = 3
	displayDescriptionLimit = 100
)

// DisplayMedicines returns up to three medicines with descriptions trimmed
// to the display limit. The receiver keeps the full values; the returned
// entries are copies.
func (r PredictionResult) DisplayMedicines() []Medicine {
	limit := len(r.Medicines)
	if limit > displayMedicineLimit {
		limit = displayMedicineLimit
	}

	out := make([]Medicine, limit)
	for i := 0; i < limit; i++ {
		m := r.Medicines[i]
		if len(m.Description) > displayDescriptionLimit {
			m.Description = m.Description[:displayDescriptionLimit] + "..."
		}
		out[i] = m
	}
	return out
}

func (r PredictionResult) Tier() ConfidenceTier {
	return TierForConfidence(r.ConfidenceScore)
}

func (r PredictionResult) Severity() ConditionSeverity {
	return SeverityForCondition(r.PredictedCancerType)
}

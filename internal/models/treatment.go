package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// TreatmentFollowUp is a scheduled check after a treatment. Follow-ups are
// stored embedded in the treatment row as a JSON list.
type TreatmentFollowUp struct {
	ScheduledDate  time.Time  `json:"scheduled_date"`
	Description    string     `json:"description"`
	IsCompleted    bool       `json:"is_completed"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Treatment records a medical intervention on an animal.
type Treatment struct {
	BaseModel

	AnimalID string     `gorm:"column:animal_id;index;not null" json:"animal_id"`
	Date     time.Time  `json:"date"`
	EndDate  *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Type     string     `json:"type"`

	DrugID              string  `gorm:"column:drug_id" json:"drug_id"`
	DrugUsed            string  `gorm:"column:drug_used" json:"drug_used"`
	Dosage              float64 `json:"dosage"`
	DosageUnit          string  `gorm:"column:dosage_unit" json:"dosage_unit"`
	AdministrationRoute string  `gorm:"column:administration_route" json:"administration_route"`

	Veterinarian        string `json:"veterinarian"`
	VeterinarianContact string `gorm:"column:veterinarian_contact" json:"veterinarian_contact"`
	Diagnosis           string `json:"diagnosis"`
	Notes               string `gorm:"type:text" json:"notes"`

	Outcome     string         `json:"outcome"`
	IsCompleted bool           `gorm:"column:is_completed;default:false" json:"is_completed"`
	FollowUps   datatypes.JSON `gorm:"column:follow_ups" json:"follow_ups,omitempty"`

	Cost     float64 `json:"cost"`
	Currency string  `gorm:"default:'EUR'" json:"currency"`

	UserUID string `gorm:"column:user_uid;index;not null" json:"user_uid"`
}

// IsOngoing reports whether the treatment is still running at the given time.
func (t *Treatment) IsOngoing(now time.Time) bool {
	return !t.IsCompleted && t.EndDate != nil && t.EndDate.After(now)
}

// DurationDays returns the elapsed treatment length in whole days, using the
// end date when set and the current time otherwise.
func (t *Treatment) DurationDays(now time.Time) int {
	end := now
	if t.EndDate != nil {
		end = *t.EndDate
	}
	return int(end.Sub(t.Date).Hours() / 24)
}

// DecodeFollowUps unmarshals the embedded follow-up list.
func (t *Treatment) DecodeFollowUps() ([]TreatmentFollowUp, error) {
	if len(t.FollowUps) == 0 {
		return nil, nil
	}
	var followUps []TreatmentFollowUp
	if err := json.Unmarshal(t.FollowUps, &followUps); err != nil {
		return nil, err
	}
	return followUps, nil
}

// EncodeFollowUps serialises the follow-up list back into the JSON column.
func (t *Treatment) EncodeFollowUps(followUps []TreatmentFollowUp) error {
	data, err := json.Marshal(followUps)
	if err != nil {
		return err
	}
	t.FollowUps = datatypes.JSON(data)
	return nil
}

package request

import (
	"time"

	"github.com/mcoot/playerbase/internal/model"
)

// PlayerRequest is the body of create and update requests.
// Absent fields decode to nil. Level fields are never read from callers.
type PlayerRequest struct {
	Name       *string           `json:"name"`
	Title      *string           `json:"title"`
	Race       *model.Race       `json:"race"`
	Profession *model.Profession `json:"profession"`
	Birthday   *int64            `json:"birthday"` // epoch millis
	Banned     *bool             `json:"banned"`
	Experience *int              `json:"experience"`
}

// ToPatch converts the request into a model patch
func (r PlayerRequest) ToPatch() model.PlayerPatch {
	patch := model.PlayerPatch{
		Name:       r.Name,
		Title:      r.Title,
		Race:       r.Race,
		Profession: r.Profession,
		Banned:     r.Banned,
		Experience: r.Experience,
	}
	if r.Birthday != nil {
		birthday := time.UnixMilli(*r.Birthday).UTC()
		patch.Birthday = &birthday
	}
	return patch
}

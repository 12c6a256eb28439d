package models

import (
	"encoding/json"
	"time"
)

// Nullable wraps an optional column value with a presence flag so that
// a field left out of a partial update ("don't touch") can be told
// apart from one explicitly sent as null ("clear it"). UnmarshalJSON
// only runs for keys that occur in the request body, which is what
// flips Set.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf builds a present, non-null Nullable
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// NullableClear builds a present-but-null Nullable
func NullableClear[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// EventInput carries a partial event for Save. Nil pointer fields were
// absent from the input and leave the stored value untouched. Relation
// id slices are full replacements when present.
type EventInput struct {
	ID uint `json:"id"`

	Date     *time.Time   `json:"date"`
	Title    *string      `json:"title"`
	Location *string      `json:"location"`
	Type     *EventType   `json:"type"`
	Status   *EventStatus `json:"status"`
	Notes    *string      `json:"notes"`

	FormatID      Nullable[uint] `json:"format_id"`
	PromoterID    Nullable[uint] `json:"promoter_id"`
	TourManagerID Nullable[uint] `json:"tour_manager_id"`

	Van     *string `json:"van"`
	Travel  *string `json:"travel"`
	Hotel   *string `json:"hotel"`
	Staging *string `json:"staging"`
	Porters *string `json:"porters"`

	Deposit Nullable[float64] `json:"deposit"`
	Balance Nullable[float64] `json:"balance"`

	DJID       Nullable[uint] `json:"dj_id"`
	VocalistID Nullable[uint] `json:"vocalist_id"`
	DancerIDs  *[]uint        `json:"dancer_ids"`
	MascotIDs  *[]uint        `json:"mascot_ids"`

	ArtistIDs  *[]uint `json:"artist_ids"`
	ServiceIDs *[]uint `json:"service_ids"`
}

// Snapshot flattens an event into the field map stored in audit
// payloads and produced by the bulk export. Relation sets are reduced
// to id lists, mirroring the export document shape.
func (e *Event) Snapshot() map[string]any {
	artistIDs := make([]uint, 0, len(e.Artists))
	for _, a := range e.Artists {
		artistIDs = append(artistIDs, a.ID)
	}
	serviceIDs := make([]uint, 0, len(e.Services))
	for _, s := range e.Services {
		serviceIDs = append(serviceIDs, s.ID)
	}
	dancerIDs := make([]uint, 0, len(e.Dancers))
	for _, d := range e.Dancers {
		dancerIDs = append(dancerIDs, d.ArtistID)
	}
	mascotIDs := make([]uint, 0, len(e.Mascots))
	for _, m := range e.Mascots {
		mascotIDs = append(mascotIDs, m.ArtistID)
	}

	return map[string]any{
		"id":              e.ID,
		"date":            e.Date.Format("2006-01-02"),
		"title":           e.Title,
		"location":        e.Location,
		"type":            e.Type,
		"status":          e.Status,
		"notes":           e.Notes,
		"format_id":       e.FormatID,
		"promoter_id":     e.PromoterID,
		"tour_manager_id": e.TourManagerID,
		"van":             e.Van,
		"travel":          e.Travel,
		"hotel":           e.Hotel,
		"staging":         e.Staging,
		"porters":         e.Porters,
		"deposit":         e.Deposit,
		"balance":         e.Balance,
		"dj_id":           e.DJID,
		"vocalist_id":     e.VocalistID,
		"dancer_ids":      dancerIDs,
		"mascot_ids":      mascotIDs,
		"artist_ids":      artistIDs,
		"service_ids":     serviceIDs,
	}
}

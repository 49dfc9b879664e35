package types

import (
	"fmt"
	"strconv"
)

// Field names as stored in the record store.
const (
	FieldLat         = "lat"
	FieldLon         = "lon"
	FieldURL         = "url"
	FieldComment     = "comment"
	FieldReview      = "review"
	FieldPendingText = "pending_text"
	FieldOwner       = "owner"
)

// RecordKeyPrefix marks permanent landmark records in the store.
const RecordKeyPrefix = "lm_"

// RequiredFields is the completion checklist, in reporting order.
var RequiredFields = []string{FieldLat, FieldLon, FieldURL, FieldComment, FieldReview}

// Draft is a user's in-progress landmark. Nil fields have not been supplied yet.
type Draft struct {
	Lat         *float64
	Lon         *float64
	URL         *string
	Comment     *string
	Review      *string
	PendingText *string
}

// DraftFromFields converts a stored field map into a Draft. Coordinates that
// fail to parse are returned as an error alongside the partially filled draft;
// the bad field is left nil.
func DraftFromFields(fields map[string]string) (*Draft, error) {
	d := new(Draft)
	var parseErr error

	if v, ok := fields[FieldLat]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse %s %q: %w", FieldLat, v, err)
		} else {
			d.Lat = &f
		}
	}

	if v, ok := fields[FieldLon]; ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			parseErr = fmt.Errorf("parse %s %q: %w", FieldLon, v, err)
		} else {
			d.Lon = &f
		}
	}

	d.URL = stringField(fields, FieldURL)
	d.Comment = stringField(fields, FieldComment)
	d.Review = stringField(fields, FieldReview)
	d.PendingText = stringField(fields, FieldPendingText)

	return d, parseErr
}

func stringField(fields map[string]string, name string) *string {
	v, ok := fields[name]
	if !ok {
		return nil
	}
	return &v
}

// Fields returns the populated fields of the draft in store form.
func (d *Draft) Fields() map[string]string {
	out := make(map[string]string, 6)
	if d.Lat != nil {
		out[FieldLat] = FormatCoordinate(*d.Lat)
	}
	if d.Lon != nil {
		out[FieldLon] = FormatCoordinate(*d.Lon)
	}
	if d.URL != nil {
		out[FieldURL] = *d.URL
	}
	if d.Comment != nil {
		out[FieldComment] = *d.Comment
	}
	if d.Review != nil {
		out[FieldReview] = *d.Review
	}
	if d.PendingText != nil {
		out[FieldPendingText] = *d.PendingText
	}
	return out
}

// Missing lists the required fields the draft does not have yet, in
// RequiredFields order.
func (d *Draft) Missing() []string {
	present := map[string]bool{
		FieldLat:     d.Lat != nil,
		FieldLon:     d.Lon != nil,
		FieldURL:     d.URL != nil,
		FieldComment: d.Comment != nil,
		FieldReview:  d.Review != nil,
	}

	missing := make([]string, 0, len(RequiredFields))
	for _, name := range RequiredFields {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// HasPendingText reports whether a non-empty text is staged for classification.
func (d *Draft) HasPendingText() bool {
	return d.PendingText != nil && *d.PendingText != ""
}

func FormatCoordinate(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Record is a promoted landmark as listed by the show command.
type Record struct {
	Key    string
	Fields map[string]string
}

// IsTextField reports whether name is a field a pending text can be classified into.
func IsTextField(name string) bool {
	return name == FieldComment || name == FieldReview
}

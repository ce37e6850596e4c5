// Package models - system data models
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout the on-disk timestamp format, local time with seconds precision
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp a point in time serialized as an ISO-8601 string with seconds precision
type Timestamp struct {
	time.Time
}

// NewTimestamp wrap a time, dropping sub-second precision
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// String the ISO-8601 form of the timestamp
func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp is not a string [%w]", err)
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

/*
ParseTimestamp parse a timestamp string

Zone-less values are read as local time. Fractional seconds and RFC 3339 strings are
also accepted.

	@param raw string - the timestamp string
	@return the parsed timestamp
*/
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, nil
	}
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return NewTimestamp(parsed), nil
		}
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return Timestamp{}, fmt.Errorf("unsupported timestamp '%s' [%w]", raw, err)
	}
	return NewTimestamp(parsed), nil
}

// Record a named, described entity
type Record struct {
	// ID record ID, assigned sequentially starting at 1
	ID int `json:"id"`

	// Name record name
	Name string `json:"name"`

	// Description record description
	Description string `json:"description"`

	// Active soft-delete marker; inactive records are hidden from default listings
	Active bool `json:"active"`

	// CreatedAt entry creation timestamp
	CreatedAt Timestamp `json:"createdAt"`
	// UpdatedAt entry update timestamp, nil until the first change
	UpdatedAt *Timestamp `json:"updatedAt"`
}

// Clone deep copy of the record
func (r Record) Clone() Record {
	c := r
	if r.UpdatedAt != nil {
		updated := *r.UpdatedAt
		c.UpdatedAt = &updated
	}
	return c
}

// Status human readable activation state
func (r Record) Status() string {
	if r.Active {
		return "active"
	}
	return "inactive"
}

// recordFileEntry accepts both the current and the legacy key names
type recordFileEntry struct {
	ID int `json:"id"`

	Name       *string `json:"name"`
	LegacyName *string `json:"nome"`

	Description       *string `json:"description"`
	LegacyDescription *string `json:"descricao"`

	Active       *bool `json:"active"`
	LegacyActive *bool `json:"ativo"`

	CreatedAt       *Timestamp `json:"createdAt"`
	LegacyCreatedAt *Timestamp `json:"criado_em"`

	UpdatedAt       *Timestamp `json:"updatedAt"`
	LegacyUpdatedAt *Timestamp `json:"atualizado_em"`
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Record) UnmarshalJSON(data []byte) error {
	var entry recordFileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return err
	}

	parsed := Record{ID: entry.ID, Active: true}
	if v := firstOf(entry.Name, entry.LegacyName); v != nil {
		parsed.Name = *v
	}
	if v := firstOf(entry.Description, entry.LegacyDescription); v != nil {
		parsed.Description = *v
	}
	if v := firstOf(entry.Active, entry.LegacyActive); v != nil {
		parsed.Active = *v
	}
	if v := firstOf(entry.CreatedAt, entry.LegacyCreatedAt); v != nil {
		parsed.CreatedAt = *v
	}
	if v := firstOf(entry.UpdatedAt, entry.LegacyUpdatedAt); v != nil && !v.IsZero() {
		updated := *v
		parsed.UpdatedAt = &updated
	}

	*r = parsed
	return nil
}

func firstOf[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout формат календарной даты в API.
const DateLayout = "2006-01-02"

// Date календарная дата без времени, в JSON пишется как "2006-01-02".
type Date struct {
	time.Time
}

// ParseDate разбирает дату в формате DateLayout, результатом будет полночь UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format %s", s, DateLayout)
	}
	return t, nil
}

// StartOfDay отбрасывает время суток.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.UTC().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// сервер может отдать и полный RFC3339
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = StartOfDay(t)
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

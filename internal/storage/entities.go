package storage

import "time"

type Slot struct {
	Key       string
	Value     string
	Version   int64
	UpdatedAt time.Time
}

package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

const recordVersion = 1

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]*$`)

// Key names one stored value.
type Key string

func (k Key) String() string {
	return string(k)
}

// Validate checks that the key is usable as a file name and a column value.
func (k Key) Validate() error {
	if k == "" {
		return fmt.Errorf("key must be set")
	}
	if !keyPattern.MatchString(k.String()) {
		return fmt.Errorf("key %q must be alphanumeric", k.String())
	}
	return nil
}

// Record is the on-disk envelope of a stored value.
type Record struct {
	Version uint   `json:"version"`
	Key     Key    `json:"id"`
	Value   string `json:"value"`
}

func (r *Record) Validate() error {
	el := errors.NewErrorList()

	if r.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	el.Add(r.Key.Validate())

	return el.Err()
}

// Package validation carries field-level validation failures back to the
// caller.
package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error maps a field name to a human readable message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, field := range keys {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}

// Collector accumulates field errors. The zero value is ready to use.
type Collector struct {
	fields map[string]string
}

// Add records msg for field. The first message for a field wins.
func (c *Collector) Add(field, msg string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = msg
	}
}

// Addf is Add with formatting.
func (c *Collector) Addf(field, format string, args ...any) {
	c.Add(field, fmt.Sprintf(format, args...))
}

// Err returns nil when nothing was recorded, otherwise an *Error.
func (c *Collector) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

// Fields returns the field map of a validation error, or nil when err is
// not one.
func Fields(err error) map[string]string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}

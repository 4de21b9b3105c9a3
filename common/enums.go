// Package common keeps enums shared by the schema, the data model and the
// configuration so neither of them has to import the other.
package common

//go:generate go tool go-enum --marshal --names --values

// Scope of a rule set: a single page or the whole site.
// ENUM(page, site)
type Scope string

// Value type of a supported property.
// ENUM(dimension, select, color, range, string)
type PropertyType string

// How a property value scales between breakpoints.
// ENUM(horizontal, vertical, font, general)
type ProportionType string

// Property family, used for grouping in the editor and in dumps.
// ENUM(position, typography, color, layout, flex, dimensions, spacing, border, effects, motion, extension)
type Group string

// Action applied to a set of rule sets at once.
// ENUM(activate, deactivate, delete)
type BulkAction string

// Site wide rules are stored with page id 0.
func (s Scope) PageID(pageID int64) int64 {
	if s == ScopeSite {
		return 0
	}
	return pageID
}

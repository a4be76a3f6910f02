package entities

import "github.com/SierraSoftworks/ghbackup/filter"

// Entity is the in-memory value object that flows from a source to an
// engine: it is filterable (exposes metadata) and displayable (has a
// human name), and knows its own relative target path.
type Entity interface {
	filter.Filterable
	Displayable
	TargetPath() string
}

// Displayable entities can render a short human-readable name, used
// in log lines and outcome events.
type Displayable interface {
	DisplayName() string
}

package world

// TableName is the relation holding world records.
const TableName = "worlds"

// World is a text record owned by the relational store.
type World struct {
	id          int64
	title       string
	description string
}

// New creates a world record.
func New(id int64, title, description string) World {
	return World{id: id, title: title, description: description}
}

// ID returns the stable record identifier.
func (w World) ID() int64 { return w.id }

// Title returns the searchable title.
func (w World) Title() string { return w.title }

// Description returns the description, empty when unset.
func (w World) Description() string { return w.description }

package regions

// Topics emitted by a single region.
const (
	EventUpdate    = "update"
	EventUpdateEnd = "update-end"
	EventRemove    = "remove"
	EventClick     = "click"
	EventDblClick  = "dblclick"
	EventIn        = "in"
	EventOut       = "out"
	EventPlay      = "play"
)

// Topics re-emitted by the collection to its host.
const (
	EventRegionCreated   = "region-created"
	EventRegionUpdated   = "region-updated"
	EventRegionUpdateEnd = "region-update-end"
	EventRegionRemoved   = "region-removed"
	EventRegionClick     = "region-click"
	EventRegionDblClick  = "region-dblclick"
	EventRegionIn        = "region-in"
	EventRegionOut       = "region-out"
	EventRegionPlay      = "region-play"
)

// Action names what changed a region.
type Action string

const (
	ActionDrag          Action = "drag"
	ActionResize        Action = "resize"
	ActionContentEdited Action = "content-edited"
	ActionUpdate        Action = "update"
)

// Direction is the side a drag or resize moved towards.
type Direction string

const (
	DirectionNone  Direction = ""
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// UpdateParams accompanies region-updated and region-update-end.
type UpdateParams struct {
	Action    Action
	Direction Direction
	OldText   string
	Text      string
}

// Event is the payload of every region notification.
type Event struct {
	Region *Region
	Update UpdateParams
}

package categories

// Category groups products and purchase orders.
type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"notblank"`
}

// EntityID implements console.Entity.
func (c Category) EntityID() int64 { return c.ID }

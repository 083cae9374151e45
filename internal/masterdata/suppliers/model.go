package suppliers

import (
	"strconv"
	"strings"
)

// ProductRef is a product listed on a supplier record.
type ProductRef struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// Supplier provides products and receives purchase orders.
type Supplier struct {
	ID               int64        `json:"id,omitempty"`
	Name             string       `json:"name" validate:"notblank"`
	Phone            string       `json:"phone" validate:"notblank"`
	Email            string       `json:"email,omitempty" validate:"omitempty,email"`
	Address          string       `json:"address,omitempty"`
	Logo             string       `json:"logo,omitempty"`
	TakesBackReturns bool         `json:"takes_back_returns"`
	Products         []ProductRef `json:"product,omitempty"`
	// OnTheWay counts units in transit. The backend does not send it yet.
	OnTheWay *int64 `json:"on_the_way,omitempty"`
}

// EntityID implements console.Entity.
func (s Supplier) EntityID() int64 { return s.ID }

// OnTheWayLabel renders the in-transit count, or "n/a" when unknown.
func (s Supplier) OnTheWayLabel() string {
	if s.OnTheWay == nil {
		return "n/a"
	}
	return strconv.FormatInt(*s.OnTheWay, 10)
}

// ProductNames lists the supplied products for the form input.
func (s Supplier) ProductNames() string {
	names := make([]string, 0, len(s.Products))
	for _, p := range s.Products {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// setProducts replaces the product list from comma separated names. Names
// already on the record keep their ids.
func (s *Supplier) setProducts(raw string) {
	known := make(map[string]int64, len(s.Products))
	for _, p := range s.Products {
		known[strings.ToLower(p.Name)] = p.ID
	}
	var refs []ProductRef
	seen := make(map[string]bool)
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		refs = append(refs, ProductRef{ID: known[key], Name: name})
	}
	s.Products = refs
}

package models

import (
	"encoding/json"
	"errors"

	"business_planner/pkg/core/monthly"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned when a custom item id is not in its collection.
var ErrItemNotFound = errors.New("custom item not found")

// CustomLineItem is a user-added row inside a fixed or variable cost group.
type CustomLineItem struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Values monthly.MonthlyData `json:"values"`
}

// CustomItems is an insertion-ordered collection of custom rows keyed by a
// stable id. Removing an item never changes the id of another.
type CustomItems struct {
	order []string
	items map[string]*CustomLineItem
}

// Add appends a new item with a fresh id and returns it.
func (c *CustomItems) Add(name string) *CustomLineItem {
	return c.insert(CustomLineItem{ID: uuid.New().String(), Name: name})
}

func (c *CustomItems) insert(item CustomLineItem) *CustomLineItem {
	if c.items == nil {
		c.items = make(map[string]*CustomLineItem)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if existing, ok := c.items[item.ID]; ok {
		*existing = item
		return existing
	}
	stored := item
	c.items[item.ID] = &stored
	c.order = append(c.order, item.ID)
	return &stored
}

// Remove deletes the item with id.
func (c *CustomItems) Remove(id string) error {
	if _, ok := c.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rename changes an item's display name.
func (c *CustomItems) Rename(id, name string) error {
	item, ok := c.items[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Name = name
	return nil
}

// Get returns the item with id, or nil.
func (c *CustomItems) Get(id string) *CustomLineItem {
	return c.items[id]
}

// Len reports how many items are stored.
func (c CustomItems) Len() int { return len(c.order) }

// Items returns copies of the items in insertion order.
func (c CustomItems) Items() []CustomLineItem {
	out := make([]CustomLineItem, 0, len(c.order))
	for _, id := range c.order {
		item := c.items[id]
		out = append(out, CustomLineItem{ID: item.ID, Name: item.Name, Values: item.Values.Clone()})
	}
	return out
}

// SumAt totals every item in month m.
func (c CustomItems) SumAt(m monthly.Month) float64 {
	total := 0.0
	for _, id := range c.order {
		total += c.items[id].Values.Value(m)
	}
	return total
}

// Map returns a new collection with the same ids, names and order and fn
// applied to every item's values.
func (c CustomItems) Map(fn func(monthly.MonthlyData) monthly.MonthlyData) CustomItems {
	var out CustomItems
	for _, id := range c.order {
		item := c.items[id]
		out.insert(CustomLineItem{ID: item.ID, Name: item.Name, Values: fn(item.Values)})
	}
	return out
}

func (c CustomItems) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Items())
}

func (c *CustomItems) UnmarshalJSON(data []byte) error {
	var list []CustomLineItem
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*c = CustomItems{}
	for _, item := range list {
		c.insert(item)
	}
	return nil
}

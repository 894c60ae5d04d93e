package domain

import (
	"fmt"
	"strings"
)

// Item is one entry of the reading plan. Identity is the position in Plan.
type Item struct {
	Ref  string `json:"ref"`
	Path string `json:"path"`
}

// Plan is the ordered reading sequence. It is loaded once per process and
// never reordered.
type Plan struct {
	Items []Item
}

func (p Plan) Len() int { return len(p.Items) }

func (p Plan) At(index int) (Item, bool) {
	if index < 0 || index >= len(p.Items) {
		return Item{}, false
	}
	return p.Items[index], true
}

func (p Plan) Validate() error {
	if len(p.Items) == 0 {
		return fmt.Errorf("plan has no items")
	}
	for i, item := range p.Items {
		if strings.TrimSpace(item.Ref) == "" {
			return fmt.Errorf("plan item %d: ref is required", i)
		}
	}
	return nil
}

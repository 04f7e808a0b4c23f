package pet

import "sort"

type ItemCategory string

const (
	CategoryFood       ItemCategory = "food"
	CategoryAccessory  ItemCategory = "accessory"
	CategoryDecoration ItemCategory = "decoration"
)

// ShopItem is a static catalog entry. For food the cost doubles as the
// fullness restored when a unit is consumed.
type ShopItem struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category ItemCategory `json:"category"`
	Cost     int64        `json:"cost"`
}

var catalog = map[string]ShopItem{
	"kibble":     {ID: "kibble", Name: "Kibble", Category: CategoryFood, Cost: 5},
	"tuna":       {ID: "tuna", Name: "Tuna Snack", Category: CategoryFood, Cost: 10},
	"feast":      {ID: "feast", Name: "Birthday Feast", Category: CategoryFood, Cost: 25},
	"bowtie":     {ID: "bowtie", Name: "Bow Tie", Category: CategoryAccessory, Cost: 15},
	"tophat":     {ID: "tophat", Name: "Top Hat", Category: CategoryAccessory, Cost: 30},
	"sunglasses": {ID: "sunglasses", Name: "Sunglasses", Category: CategoryAccessory, Cost: 20},
	"plant":      {ID: "plant", Name: "Potted Plant", Category: CategoryDecoration, Cost: 12},
	"lamp":       {ID: "lamp", Name: "Lava Lamp", Category: CategoryDecoration, Cost: 18},
}

// LookupItem returns the catalog entry for id.
func LookupItem(id string) (ShopItem, bool) {
	item, ok := catalog[id]
	return item, ok
}

// Catalog returns all shop items in a stable order.
func Catalog() []ShopItem {
	items := make([]ShopItem, 0, len(catalog))
	for _, it := range catalog {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

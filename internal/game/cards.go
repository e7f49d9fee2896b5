package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// CardItem is a static catalog entry. IconName is an opaque reference the
// frontend resolves to an actual icon component.
type CardItem struct {
	Name     string `json:"name"`
	IconName string `json:"iconName"`
}

var cardItems = []CardItem{
	{Name: "Apple", IconName: "Apple"},
	{Name: "Car", IconName: "Car"},
	{Name: "Book", IconName: "Book"},
	{Name: "Phone", IconName: "Smartphone"},
	{Name: "Cat", IconName: "Cat"},
	{Name: "Tree", IconName: "TreePine"},
	{Name: "House", IconName: "Home"},
	{Name: "Guitar", IconName: "Guitar"},
	{Name: "Pizza", IconName: "Pizza"},
	{Name: "Camera", IconName: "Camera"},
	{Name: "Flower", IconName: "Flower"},
	{Name: "Clock", IconName: "Clock"},
	{Name: "Laptop", IconName: "Laptop"},
	{Name: "Coffee", IconName: "Coffee"},
	{Name: "Bicycle", IconName: "Bike"},
	{Name: "Sunglasses", IconName: "Glasses"},
	{Name: "Shoes", IconName: "Footprints"},
	{Name: "Watch", IconName: "Watch"},
	{Name: "Balloon", IconName: "Heart"},
	{Name: "Umbrella", IconName: "Umbrella"},
	{Name: "Candle", IconName: "Flame"},
	{Name: "Butterfly", IconName: "Bug"},
	{Name: "Keyboard", IconName: "Keyboard"},
	{Name: "Glasses", IconName: "GlassesIcon"},
	{Name: "Hat", IconName: "HardHat"},
	{Name: "Basketball", IconName: "CircleDot"},
	{Name: "Pen", IconName: "Pen"},
	{Name: "Dice", IconName: "Dice1"},
	{Name: "Headphones", IconName: "Headphones"},
	{Name: "Backpack", IconName: "Backpack"},
}

// CardItems returns the full catalog, e.g. for clients that need the icon map.
func CardItems() []CardItem {
	out := make([]CardItem, len(cardItems))
	copy(out, cardItems)
	return out
}

func newCard(item CardItem, rng *rand.Rand) Card {
	arrow := ArrowLeft
	if rng.Intn(2) == 0 {
		arrow = ArrowRight
	}
	return Card{
		ID:       uuid.NewString(),
		Name:     item.Name,
		IconName: item.IconName,
		Arrow:    arrow,
	}
}

// DrawUnique produces n cards with pairwise-distinct names via a uniform
// shuffle of the catalog. Arrow direction is assigned per card with equal
// probability and never changes afterwards.
func DrawUnique(n int, rng *rand.Rand) ([]Card, error) {
	if n > len(cardItems) {
		return nil, ErrInsufficientCardTypes
	}
	shuffled := make([]CardItem, len(cardItems))
	copy(shuffled, cardItems)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cards := make([]Card, 0, n)
	for _, item := range shuffled[:n] {
		cards = append(cards, newCard(item, rng))
	}
	return cards, nil
}

// drawReplacement picks one fresh card whose name is not in the inUse set.
// Returns ok=false when every catalog name is already in play.
func drawReplacement(inUse map[string]bool, rng *rand.Rand) (Card, bool) {
	available := make([]CardItem, 0, len(cardItems))
	for _, item := range cardItems {
		if !inUse[item.Name] {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		return Card{}, false
	}
	return newCard(available[rng.Intn(len(available))], rng), true
}

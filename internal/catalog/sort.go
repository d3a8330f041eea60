package catalog

import (
	"sort"

	"github.com/maruel/natural"
)

// Sort method constants, stored in the config file as integers.
const (
	SortNatural    = 0 // Natural order (car_2 before car_10)
	SortSimple     = 1 // Lexicographical order
	SortEntryOrder = 2 // Keep directory/archive order
)

// SortStrategy orders listed locators before they become a catalog.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(locators []string) []string
	Name() string
	ID() int
}

type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(locators []string) []string {
	result := cloneLocators(locators)
	sort.SliceStable(result, func(i, j int) bool {
		return natural.Less(result[i], result[j])
	})
	return result
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

type SimpleSortStrategy struct{}

func (s *SimpleSortStrategy) Sort(locators []string) []string {
	result := cloneLocators(locators)
	sort.Strings(result)
	return result
}

func (s *SimpleSortStrategy) Name() string { return "Simple" }
func (s *SimpleSortStrategy) ID() int      { return SortSimple }

type EntryOrderSortStrategy struct{}

func (s *EntryOrderSortStrategy) Sort(locators []string) []string {
	return cloneLocators(locators)
}

func (s *EntryOrderSortStrategy) Name() string { return "Entry Order" }
func (s *EntryOrderSortStrategy) ID() int      { return SortEntryOrder }

// GetSortStrategy returns the strategy for a sort method id, falling back
// to natural order.
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortSimple:
		return &SimpleSortStrategy{}
	case SortEntryOrder:
		return &EntryOrderSortStrategy{}
	default:
		return &NaturalSortStrategy{}
	}
}

func cloneLocators(locators []string) []string {
	result := make([]string, len(locators))
	copy(result, locators)
	return result
}

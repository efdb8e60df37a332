package database

const (
	SortManual      = "manual" // explicit per-photo order set by the reorder endpoint
	SortFilenameAsc = "filename_asc"
	SortFilenameNat = "filename_nat"
	SortDateDesc    = "date_desc"
	SortDateAsc     = "date_asc"
)

const DefaultSortOrder = SortManual

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortManual, SortFilenameAsc, SortFilenameNat, SortDateDesc, SortDateAsc:
		return true
	default:
		return false
	}
}

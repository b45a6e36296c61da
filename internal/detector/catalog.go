package detector

// CatalogItem is one entry of the static performative item table: a
// display name, a fixed point value and the keywords that match it.
type CatalogItem struct {
	Name     string
	Points   int
	Keywords []string
}

// DefaultCatalog returns the built-in performative item table. The
// slice is freshly allocated per call so callers cannot mutate the
// catalog another detector was built with.
func DefaultCatalog() []CatalogItem {
	return []CatalogItem{
		{"Vintage Camera", 15, []string{"camera", "vintage", "film", "analog", "leica", "canon", "nikon"}},
		{"Tote Bag", 12, []string{"bag", "tote", "canvas", "shopping", "eco", "reusable"}},
		{"Record Player", 18, []string{"turntable", "vinyl", "record", "player", "technics", "audio"}},
		{"Typewriter", 20, []string{"typewriter", "vintage", "mechanical", "writing", "antique"}},
		{"Coffee Artisan", 8, []string{"coffee", "espresso", "latte", "cappuccino", "barista", "artisan"}},
		{"Books Literature", 10, []string{"book", "novel", "literature", "reading", "library", "poetry"}},
		{"Thick Rim Glasses", 11, []string{"glasses", "eyewear", "spectacles", "frames", "hipster"}},
		{"Groomed Beard", 8, []string{"beard", "facial hair", "mustache", "goatee", "groomed"}},
		{"Flannel Shirt", 9, []string{"flannel", "plaid", "checkered", "shirt", "lumber"}},
		{"Fixed Gear Bicycle", 13, []string{"bicycle", "bike", "cycling", "fixed gear", "fixie"}},
		{"Art Supplies", 14, []string{"paint", "brush", "canvas", "art", "creative", "studio"}},
		{"Indie Band Merch", 16, []string{"band", "music", "indie", "concert", "merch", "vinyl"}},
		{"Craft Beer", 7, []string{"beer", "craft", "brewery", "ipa", "hops", "artisan"}},
		{"Thrift Clothing", 9, []string{"thrift", "vintage", "secondhand", "retro", "used"}},
		{"Polaroid Camera", 17, []string{"polaroid", "instant", "film", "photo", "vintage"}},
		{"Moleskine Notebook", 6, []string{"notebook", "moleskine", "journal", "writing", "leather"}},
		{"Beanie Hat", 5, []string{"beanie", "hat", "knit", "winter", "wool"}},
		{"Suspenders", 12, []string{"suspenders", "braces", "vintage", "retro", "formal"}},
		{"Bow Tie", 10, []string{"bow tie", "formal", "vintage", "dapper", "classic"}},
		{"Pocket Watch", 19, []string{"watch", "pocket", "vintage", "antique", "timepiece"}},
	}
}

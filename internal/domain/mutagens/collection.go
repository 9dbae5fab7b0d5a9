package mutagens

// collectionOperators swap sequence functions with their counterparts.
func collectionOperators() []Operator {
	return []Operator{
		headSwap("coll-first-last", CategoryCollection, "first", "last"),
		headSwap("coll-last-first", CategoryCollection, "last", "first"),
		headSwap("coll-empty-seq", CategoryCollection, "empty?", "seq"),
		headSwap("coll-seq-empty", CategoryCollection, "seq", "empty?"),
		headSwap("coll-filter-remove", CategoryCollection, "filter", "remove"),
		headSwap("coll-remove-filter", CategoryCollection, "remove", "filter"),
		headSwap("coll-take-drop", CategoryCollection, "take", "drop"),
		headSwap("coll-drop-take", CategoryCollection, "drop", "take"),
		headSwap("coll-takewhile-dropwhile", CategoryCollection, "take-while", "drop-while"),
		headSwap("coll-dropwhile-takewhile", CategoryCollection, "drop-while", "take-while"),
	}
}

package mutagens

// nilOperators flip nil checks and drop nil-safe threading.
func nilOperators() []Operator {
	return []Operator{
		headSwap("nil-isnil-issome", CategoryNil, "nil?", "some?"),
		headSwap("nil-issome-isnil", CategoryNil, "some?", "nil?"),
		headSwap("nil-somethread-thread", CategoryNil, "some->", "->"),
	}
}

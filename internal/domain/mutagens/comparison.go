package mutagens

// comparisonOperators shift comparison boundaries and flip equality.
func comparisonOperators() []Operator {
	return []Operator{
		headSwap("cmp-lt-lte", CategoryComparison, "<", "<="),
		headSwap("cmp-lte-lt", CategoryComparison, "<=", "<"),
		headSwap("cmp-gt-gte", CategoryComparison, ">", ">="),
		headSwap("cmp-gte-gt", CategoryComparison, ">=", ">"),
		headSwap("cmp-lt-gt", CategoryComparison, "<", ">"),
		headSwap("cmp-gt-lt", CategoryComparison, ">", "<"),
		headSwap("cmp-eq-neq", CategoryComparison, "=", "not="),
		headSwap("cmp-neq-eq", CategoryComparison, "not=", "="),
	}
}

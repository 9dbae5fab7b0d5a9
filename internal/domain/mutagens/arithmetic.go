package mutagens

// arithmeticOperators swap arithmetic functions in call-head position.
func arithmeticOperators() []Operator {
	return []Operator{
		headSwap("arith-add-sub", CategoryArithmetic, "+", "-"),
		headSwap("arith-sub-add", CategoryArithmetic, "-", "+"),
		headSwap("arith-mul-div", CategoryArithmetic, "*", "/"),
		headSwap("arith-div-mul", CategoryArithmetic, "/", "*"),
		headSwap("arith-inc-dec", CategoryArithmetic, "inc", "dec"),
		headSwap("arith-dec-inc", CategoryArithmetic, "dec", "inc"),
		headSwap("arith-quot-rem", CategoryArithmetic, "quot", "rem"),
		headSwap("arith-rem-mod", CategoryArithmetic, "rem", "mod"),
		headSwap("arith-max-min", CategoryArithmetic, "max", "min"),
		headSwap("arith-min-max", CategoryArithmetic, "min", "max"),
	}
}

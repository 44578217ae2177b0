package token

// Lookup dispatches an identifier's code units to a keyword Kind, or Ident
// if name does not match any reserved word. It is a length-first switch,
// the same perfect-match shape as the reference's Lookup.h::testKeyword —
// no hashing, just a handful of character compares per length bucket.
func Lookup(name []uint16) Kind {
	switch len(name) {
	case 2:
		switch {
		case match(name, "do"):
			return Do
		case match(name, "if"):
			return If
		case match(name, "in"):
			return In
		}
	case 3:
		switch {
		case match(name, "for"):
			return For
		case match(name, "new"):
			return New
		case match(name, "try"):
			return Try
		case match(name, "var"):
			return Var
		}
	case 4:
		switch {
		case match(name, "case"):
			return Case
		case match(name, "else"):
			return Else
		case match(name, "enum"):
			return Reserved
		case match(name, "null"):
			return Null
		case match(name, "this"):
			return This
		case match(name, "true"):
			return True
		case match(name, "void"):
			return Void
		case match(name, "with"):
			return With
		}
	case 5:
		switch {
		case match(name, "break"):
			return Break
		case match(name, "catch"):
			return Catch
		case match(name, "class"):
			return Reserved
		case match(name, "const"):
			return Const
		case match(name, "false"):
			return False
		case match(name, "super"):
			return Reserved
		case match(name, "throw"):
			return Throw
		case match(name, "while"):
			return While
		}
	case 6:
		switch {
		case match(name, "delete"):
			return Delete
		case match(name, "export"):
			return Reserved
		case match(name, "import"):
			return Reserved
		case match(name, "return"):
			return Return
		case match(name, "switch"):
			return Switch
		case match(name, "typeof"):
			return Typeof
		}
	case 7:
		switch {
		case match(name, "default"):
			return Default
		case match(name, "extends"):
			return Reserved
		case match(name, "finally"):
			return Finally
		}
	case 8:
		switch {
		case match(name, "continue"):
			return Continue
		case match(name, "debugger"):
			return Debugger
		case match(name, "function"):
			return Function
		}
	case 10:
		if match(name, "instanceof") {
			return Instanceof
		}
	}
	return Ident
}

func match(name []uint16, want string) bool {
	if len(name) != len(want) {
		return false
	}
	for i := 0; i < len(want); i++ {
		if name[i] != uint16(want[i]) {
			return false
		}
	}
	return true
}

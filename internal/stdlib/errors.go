package stdlib

import "fmt"

func errArity(name string, want, got int) error {
	return fmt.Errorf("stdlib: %s expects %d argument(s), got %d", name, want, got)
}

func errNotNumber(v interface{ String() string }) error {
	return fmt.Errorf("stdlib: expected a number, got %s", v.String())
}

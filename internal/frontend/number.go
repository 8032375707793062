package frontend

import "strconv"

// parseIntLiteral converts a lexed integer literal's raw text (decimal, "0x"-prefixed hex, or "0"-prefixed
// octal, per SysY's C-style integer-constant grammar) into its value.
func parseIntLiteral(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

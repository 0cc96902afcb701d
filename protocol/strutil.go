package protocol

// Itoa converts an integer to a string without using fmt or strconv
func Itoa(n int) string {
	var buf [20]byte
	return string(AppendInt(buf[:0], n))
}

// AppendInt appends the decimal form of n to dst
func AppendInt(dst []byte, n int) []byte {
	if n == 0 {
		return append(dst, '0')
	}

	var buf [20]byte
	pos := len(buf)

	// Work on the negative value so the minimum int does not overflow
	negative := n < 0
	if !negative {
		n = -n
	}
	for n < 0 {
		pos--
		buf[pos] = byte('0' - n%10)
		n /= 10
	}
	if negative {
		pos--
		buf[pos] = '-'
	}

	return append(dst, buf[pos:]...)
}

// ParseInt reads a token the way the car firmware always has: optional
// leading spaces, an optional sign, then decimal digits up to the first
// non-digit. A token with no leading digits yields 0. Values that do not
// fit in 32 bits saturate.
func ParseInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}

	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}

	const limit = 1<<31 - 1
	n := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (limit-d)/10 {
			n = limit
			continue
		}
		n = n*10 + d
	}

	if negative {
		return -n
	}
	return n
}

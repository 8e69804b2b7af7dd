package thumbnail

// naturalLess orders strings so embedded digit runs compare numerically:
// "page2" sorts before "page10".
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			ai := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			bj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := trimZeros(a[ai:i])
			nb := trimZeros(b[bj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}

package utils

// MaskSecret reduces a credential to a stub that is recognizable in logs
// without being usable. Values too short to mask safely are hidden whole.
func MaskSecret(s string) string {
	const visible = 6
	if len(s) <= 2*visible {
		return "******"
	}
	return s[:visible] + "..." + s[len(s)-4:]
}

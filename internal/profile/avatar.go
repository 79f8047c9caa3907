package profile

import "strings"

// NormalizeAvatarURL upgrades the X avatar size suffix to 400x400 and forces
// https.
func NormalizeAvatarURL(raw string) string {
	if raw == "" {
		return ""
	}
	out := raw
	switch {
	case strings.Contains(out, "_normal"):
		out = strings.Replace(out, "_normal", "_400x400", 1)
	case strings.Contains(out, "_200x200"):
		out = strings.Replace(out, "_200x200", "_400x400", 1)
	}
	if strings.HasPrefix(out, "http://") {
		out = "https://" + strings.TrimPrefix(out, "http://")
	}
	return out
}

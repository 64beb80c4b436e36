package main

// Avatar palettes. The client renders an avatar entirely from the indices
// derived here, so any two clients given the same seed draw the same face.
var avatarColors = []string{
	"#ff3333", "#33cc33", "#3399ff", "#ff8833", "#aa44ff",
	"#ffcc00", "#88ddff", "#88ff00", "#ff66aa", "#ffffff",
}

var avatarFaces = []string{
	"round", "square", "bean", "egg", "blob", "star",
}

var avatarHats = []string{
	"none", "cap", "crown", "bow", "halo", "horns", "antenna",
}

// Avatar is the rendered appearance derived from a seed string
type Avatar struct {
	Color1 string `json:"c1"`
	Color2 string `json:"c2"`
	Face   string `json:"face"`
	Hat    string `json:"hat"`
}

// AvatarFor deterministically derives an avatar from a seed string
func AvatarFor(seed string) Avatar {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(seed); i++ {
		h ^= uint64(seed[i])
		h *= 1099511628211
	}
	c1 := int(h % uint64(len(avatarColors)))
	h /= uint64(len(avatarColors))
	c2 := int(h % uint64(len(avatarColors)))
	h /= uint64(len(avatarColors))
	if c2 == c1 {
		c2 = (c2 + 1) % len(avatarColors)
	}
	face := int(h % uint64(len(avatarFaces)))
	h /= uint64(len(avatarFaces))
	hat := int(h % uint64(len(avatarHats)))
	return Avatar{
		Color1: avatarColors[c1],
		Color2: avatarColors[c2],
		Face:   avatarFaces[face],
		Hat:    avatarHats[hat],
	}
}

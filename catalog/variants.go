package catalog

// Selector resolves a color/size choice against a product's variants
type Selector struct {
	variants []Variant
	color    string
	size     string
}

func NewSelector(variants []Variant, color, size string) Selector {
	return Selector{variants: variants, color: color, size: size}
}

func (s Selector) Color() string { return s.color }
func (s Selector) Size() string  { return s.size }

// AllColors lists distinct colors in first-seen order
func (s Selector) AllColors() []string {
	return distinct(s.variants, func(v Variant) string { return v.Color })
}

// AllSizes lists distinct sizes in first-seen order
func (s Selector) AllSizes() []string {
	return distinct(s.variants, func(v Variant) string { return v.Size })
}

// ValidSizes returns the sizes available in the selected color, or nil when no
// color is selected (every size is valid)
func (s Selector) ValidSizes() map[string]bool {
	if s.color == "" {
		return nil
	}
	valid := make(map[string]bool)
	for _, v := range s.variants {
		if v.Color == s.color {
			valid[v.Size] = true
		}
	}
	return valid
}

// ValidColors returns the colors available in the selected size, or nil when
// no size is selected
func (s Selector) ValidColors() map[string]bool {
	if s.size == "" {
		return nil
	}
	valid := make(map[string]bool)
	for _, v := range s.variants {
		if v.Size == s.size {
			valid[v.Color] = true
		}
	}
	return valid
}

// SizeEnabled reports whether size may be picked given the current color
func (s Selector) SizeEnabled(size string) bool {
	valid := s.ValidSizes()
	return valid == nil || valid[size]
}

// ColorEnabled reports whether color may be picked given the current size
func (s Selector) ColorEnabled(color string) bool {
	valid := s.ValidColors()
	return valid == nil || valid[color]
}

// Active returns the variant matching both selections, or nil
func (s Selector) Active() *Variant {
	if s.color == "" || s.size == "" {
		return nil
	}
	for i := range s.variants {
		if s.variants[i].Color == s.color && s.variants[i].Size == s.size {
			return &s.variants[i]
		}
	}
	return nil
}

func distinct(variants []Variant, key func(Variant) string) []string {
	seen := make(map[string]bool, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
